package ledger

import (
	"context"

	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que registro de movimiento y
// actualización de la proyección queden en la misma frontera transaccional:
// si una falla, la otra se revierte con ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// BatchReportGenerator genera el reporte de lotes para exportación (PDF).
type BatchReportGenerator interface {
	GenerateBatchReport(ctx context.Context, data *ReportData) ([]byte, error)
}
