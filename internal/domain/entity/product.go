package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component parte opcional de un producto (ej. accesorios de una vasca).
// Discount es un porcentaje en [0,100].
type Component struct {
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description,omitempty"`
	Included    bool             `json:"included,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}

// Upload archivo de imagen adjunto a un producto pendiente de subir.
// Nunca se serializa como JSON: fuerza el envío multipart en create/edit.
type Upload struct {
	Filename string
	Content  []byte
}

// Product representa un producto del catálogo (vascas, Cifa, etc.).
// PreviewURL e Image son solo del cliente y no viajan nunca al servidor:
// PreviewURL permite mostrar una imagen aún no subida.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"` // markdown
	Price       decimal.Decimal  `json:"price"`
	Category    string           `json:"category"`
	Company     string           `json:"company,omitempty"`
	ImgURL      string           `json:"imgUrl,omitempty"` // data-URL o URL remota
	Components  []Component      `json:"components,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"` // porcentaje en [0,100]
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt,omitempty"`

	PreviewURL string  `json:"-"`
	Image      *Upload `json:"-"`
}

// EntityID implementa store.Entity.
func (p Product) EntityID() int64 { return p.ID }
