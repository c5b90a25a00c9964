package entity

import "time"

// Supplier representa un proveedor. El ledger solo lo referencia como origen
// de entradas de stock; su gestión completa vive fuera del núcleo.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
