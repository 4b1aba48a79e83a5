package entity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/sermixer/backoffice-sdk/internal/domain"
)

var validate = validator.New()

var hundred = decimal.NewFromInt(100)

// Validate comprueba los límites de precio y descuento del producto antes de
// enviarlo al servidor: precios no negativos y descuentos en [0,100].
// El servidor no valida estos rangos, así que el chequeo local es la única barrera.
func (p Product) Validate() error {
	ve := domain.NewValidationError()
	if p.Name == "" {
		ve.Add("name", "requerido")
	}
	if p.Price.IsNegative() {
		ve.Add("price", "debe ser no negativo")
	}
	checkDiscount("discount", p.Discount, ve)
	for i, comp := range p.Components {
		if comp.Name == "" {
			ve.Add(fmt.Sprintf("components[%d].name", i), "requerido")
		}
		if comp.Price.IsNegative() {
			ve.Add(fmt.Sprintf("components[%d].price", i), "debe ser no negativo")
		}
		checkDiscount(fmt.Sprintf("components[%d].discount", i), comp.Discount, ve)
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func checkDiscount(field string, d *decimal.Decimal, ve *domain.ValidationError) {
	if d == nil {
		return
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		ve.Add(field, "debe estar entre 0 y 100")
	}
}

// Validate comprueba los campos mínimos del cliente: identificadores legales,
// email y la dirección completa (los cuatro subcampos son requeridos al crear).
func (c Client) Validate() error {
	ve := domain.NewValidationError()
	if err := validate.Var(c.Email, "required,email"); err != nil {
		ve.Add("email", "email inválido")
	}
	if c.FiscalCode == "" {
		ve.Add("fiscalCode", "requerido")
	}
	if c.VatNumber == "" {
		ve.Add("vatNumber", "requerido")
	}
	if c.Address.Street == "" || c.Address.City == "" || c.Address.ZipCode == "" || c.Address.Country == "" {
		ve.Add("address", "street, city, zipCode y country son requeridos")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}
