// Package batch contiene la lógica pura de clasificación de lotes:
// funciones sin efectos secundarios sobre los campos del lote y la hora actual.
package batch

import (
	"time"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

// DefaultExpiringHorizonDays horizonte por defecto para "próximo a vencer".
const DefaultExpiringHorizonDays = 30

// Summary conteos agregados sobre un conjunto de lotes. Las categorías no son
// excluyentes salvo InStock/OutOfStock, que particionan el conjunto; Expired y
// ExpiringSoon son superposiciones independientes para reportes.
type Summary struct {
	Total        int
	InStock      int
	OutOfStock   int
	Expired      int
	ExpiringSoon int
}

// IsExpired indica si el lote ya pasó su fecha de vencimiento.
func IsExpired(b *entity.Batch, now time.Time) bool {
	return now.After(b.ExpiryDate)
}

// IsOutOfStock indica si el lote quedó sin existencias.
func IsOutOfStock(b *entity.Batch) bool {
	return b.RemainingQuantity == 0
}

// IsExpiringSoon indica si el lote está dentro del horizonte de vencimiento
// sin haber vencido todavía. Un lote vencido nunca es "próximo a vencer".
func IsExpiringSoon(b *entity.Batch, now time.Time, horizonDays int) bool {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiringHorizonDays
	}
	if IsExpired(b, now) {
		return false
	}
	return b.ExpiryDate.Sub(now) <= time.Duration(horizonDays)*24*time.Hour
}

// Summarize calcula los conteos agregados del conjunto de lotes al momento now.
func Summarize(batches []*entity.Batch, now time.Time, horizonDays int) Summary {
	s := Summary{Total: len(batches)}
	for _, b := range batches {
		if IsOutOfStock(b) {
			s.OutOfStock++
		} else {
			s.InStock++
		}
		if IsExpired(b, now) {
			s.Expired++
		}
		if IsExpiringSoon(b, now, horizonDays) {
			s.ExpiringSoon++
		}
	}
	return s
}
