package entity

import "time"

// Address objeto de valor embebido en Client. Los cuatro campos son
// obligatorios al crear el cliente.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Client representa un cliente comercial (destinatario de presupuestos).
// FiscalCode y VatNumber son los identificadores legales italianos.
type Client struct {
	ID           int64     `json:"id"`
	FiscalCode   string    `json:"fiscalCode"`
	VatNumber    string    `json:"vatNumber"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CompanyName  string    `json:"companyName"`
	Address      Address   `json:"address"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// EntityID implementa store.Entity.
func (c Client) EntityID() int64 { return c.ID }
