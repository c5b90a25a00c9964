package entity

import "time"

// Product representa un producto del catálogo. El stock físico no vive aquí:
// se lleva por lotes (Batch) y se muta vía movimientos.
type Product struct {
	ID         string
	CategoryID string
	Code       string // código único del producto
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
