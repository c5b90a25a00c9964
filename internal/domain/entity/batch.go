package entity

import "time"

// Batch representa un lote de un producto con su propia fecha de vencimiento.
// RemainingQuantity es una proyección mutable: siempre debe poder reconstruirse
// como InitialQuantity + Σ(entradas) − Σ(salidas) sobre los movimientos del lote.
// Se muta únicamente a través de movimientos, nunca por edición directa.
type Batch struct {
	ID                string
	ProductID         string
	UnitID            string
	BatchCode         string // código legible, único por producto
	ExpiryDate        time.Time
	InitialQuantity   int64  // fijado una sola vez en la creación, > 0
	RemainingQuantity int64  // nunca < 0
	BuyPrice          int64  // unidad mínima de moneda (centavos)
	SupplierID        string // opcional: origen del stock inicial
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFresh indica si el lote está intacto: cantidad igual a la inicial.
// Un lote solo es eliminable mientras además no tenga movimientos registrados
// (ambas condiciones se verifican en el servicio, por si la proyección derivó).
func (b *Batch) IsFresh() bool {
	return b.RemainingQuantity == b.InitialQuantity
}
