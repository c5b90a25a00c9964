package entity

import "time"

// Unit representa una unidad de medida (caja, blíster, unidad, etc.).
type Unit struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
