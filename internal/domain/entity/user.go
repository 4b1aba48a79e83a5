package entity

import "time"

// Roles válidos para User. Role es el único discriminante de autorización en el frontend.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Empresas conocidas (valor del campo companyName de User y filtro company de Product).
const (
	CompanySermixer       = "sermixer"
	CompanyS2TruckService = "s2_truck_service"
)

// User representa un usuario del backoffice.
// Password es de solo escritura: se envía al crear/editar y el servidor nunca lo devuelve.
// CreatedAt/UpdatedAt los asigna el servidor; el cliente no los escribe.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	CompanyName string    `json:"companyName"` // sermixer | s2_truck_service
	Email       string    `json:"email"`
	Role        string    `json:"role"` // admin | user
	Password    string    `json:"password,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// EntityID implementa store.Entity.
func (u User) EntityID() int64 { return u.ID }

// IsAdmin indica si el usuario tiene rol admin.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
