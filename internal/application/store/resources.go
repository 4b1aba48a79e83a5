package store

import (
	"encoding/json"
	"strconv"

	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/rest"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

// NewUsersStore store de usuarios.
func NewUsersStore(client *rest.Client, log *logger.Logger) *Store[entity.User] {
	return New(client, Resource[entity.User]{
		Name:       "users",
		ListPath:   "/users/get-users",
		CreatePath: "/users/create-user",
		UpdatePath: "/users/edit-user",
		DeletePath: "/users/delete-users",
	}, log)
}

// NewClientsStore store de clientes.
func NewClientsStore(client *rest.Client, log *logger.Logger) *Store[entity.Client] {
	return New(client, Resource[entity.Client]{
		Name:       "clients",
		ListPath:   "/clients/get-clients",
		CreatePath: "/clients/create-client",
		UpdatePath: "/clients/edit-client",
		DeletePath: "/clients/delete-clients",
		Validate:   func(c entity.Client) error { return c.Validate() },
	}, log)
}

// NewProductsStore store de productos. Create/edit viajan como multipart
// cuando el producto lleva una imagen adjunta; como JSON en caso contrario.
func NewProductsStore(client *rest.Client, log *logger.Logger) *Store[entity.Product] {
	return New(client, Resource[entity.Product]{
		Name:       "products",
		ListPath:   "/products/get-products",
		CreatePath: "/products/create-product",
		UpdatePath: "/products/edit-product",
		DeletePath: "/products/delete-products",
		EncodeForm: encodeProductForm,
		Validate:   func(p entity.Product) error { return p.Validate() },
	}, log)
}

// encodeProductForm codifica el producto como multipart/form-data solo si hay
// imagen adjunta. Campos según el contrato del API: id, name, description,
// price, category, company, components (JSON), image (binario).
func encodeProductForm(p entity.Product) (*rest.Form, error) {
	if p.Image == nil {
		return nil, nil // sin imagen: JSON normal
	}
	form := rest.NewForm()
	if err := form.Field("id", strconv.FormatInt(p.ID, 10)); err != nil {
		return nil, err
	}
	if err := form.Field("name", p.Name); err != nil {
		return nil, err
	}
	if err := form.Field("description", p.Description); err != nil {
		return nil, err
	}
	if err := form.Field("price", p.Price.String()); err != nil {
		return nil, err
	}
	if err := form.Field("category", p.Category); err != nil {
		return nil, err
	}
	if err := form.Field("company", p.Company); err != nil {
		return nil, err
	}
	components := p.Components
	if components == nil {
		components = []entity.Component{}
	}
	rawComponents, err := json.Marshal(components)
	if err != nil {
		return nil, err
	}
	if err := form.Field("components", string(rawComponents)); err != nil {
		return nil, err
	}
	if p.Discount != nil {
		if err := form.Field("discount", p.Discount.String()); err != nil {
			return nil, err
		}
	}
	if err := form.File("image", p.Image.Filename, p.Image.Content); err != nil {
		return nil, err
	}
	return form, nil
}
