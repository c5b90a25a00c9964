package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Lotes-api/internal/domain"
	"github.com/jhoicas/Lotes-api/internal/domain/entity"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

// LedgerUseCase superficie pública del ledger de lotes: creación, movimientos
// de entrada/salida, ajustes, guarda de borrado y detalle. Combina el registro
// de movimientos (append-only) con la proyección RemainingQuantity en
// operaciones compuestas consistentes: cada operación termina con todos los
// invariantes en pie o deja el estado exactamente como estaba.
type LedgerUseCase struct {
	txRunner     TxRunner
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	unitRepo     repository.UnitRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	unitRepo repository.UnitRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		unitRepo:     unitRepo,
	}
}

// CreateBatchInput entrada para crear un lote.
type CreateBatchInput struct {
	ProductID       string
	BatchCode       string
	ExpiryDate      time.Time
	InitialQuantity int64
	BuyPrice        int64
	UnitID          string
	SupplierID      string
}

// StockInInput entrada para registrar una entrada de stock sobre un lote.
type StockInInput struct {
	BatchID    string
	Quantity   int64
	UnitID     string
	Date       time.Time
	SupplierID string
}

// StockOutInput entrada para registrar una salida de stock sobre un lote.
// Exactamente uno de Reason (retiro manual) o TransactionID (venta).
type StockOutInput struct {
	BatchID       string
	Quantity      int64
	UnitID        string
	Date          time.Time
	Reason        string
	TransactionID string
}

// AdjustInput entrada para un ajuste con signo: Delta > 0 entra, Delta < 0 sale.
type AdjustInput struct {
	BatchID string
	Delta   int64
	Reason  string
	UnitID  string
}

// BatchDetail lote más su historial ordenado y los consumos por venta que lo
// referencian (solo para presentación).
type BatchDetail struct {
	Batch        *entity.Batch
	Movements    []*entity.Movement
	Consumptions []*entity.Movement // salidas con TransactionID (ventas)
}

// CreateBatch crea un lote nuevo. Es la única vía de instanciación: la cantidad
// restante nace igual a la inicial y de ahí en adelante solo cambia vía
// movimientos. Rechaza vencimiento no futuro (ErrExpiredOnArrival), cantidad
// no positiva (ErrInvalidQuantity) y código duplicado por producto (ErrDuplicate).
func (uc *LedgerUseCase) CreateBatch(ctx context.Context, in CreateBatchInput) (*entity.Batch, error) {
	if in.ProductID == "" || in.BatchCode == "" || in.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.BuyPrice < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if !in.ExpiryDate.After(now) {
		return nil, domain.ErrExpiredOnArrival
	}

	// Las referencias a producto, unidad y proveedor se validan por existencia;
	// sus datos son propiedad de otros módulos.
	if err := uc.checkProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := uc.checkUnit(ctx, in.UnitID); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
			return nil, err
		}
	}

	b := &entity.Batch{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		UnitID:            in.UnitID,
		BatchCode:         in.BatchCode,
		ExpiryDate:        in.ExpiryDate,
		InitialQuantity:   in.InitialQuantity,
		RemainingQuantity: in.InitialQuantity,
		BuyPrice:          in.BuyPrice,
		SupplierID:        in.SupplierID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.batchRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RecordStockIn registra una entrada: apendiza el movimiento IN y aplica la
// suma a la proyección dentro de la misma transacción, de modo que nunca quede
// un movimiento huérfano si el lote desapareció concurrentemente.
// Las entradas se permiten también sobre lotes ya vencidos: las correcciones
// compensatorias deben seguir siendo posibles después del vencimiento.
func (uc *LedgerUseCase) RecordStockIn(ctx context.Context, in StockInInput) (*entity.Movement, *entity.Batch, error) {
	if in.BatchID == "" || in.UnitID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if err := uc.checkUnit(ctx, in.UnitID); err != nil {
		return nil, nil, err
	}
	if in.SupplierID != "" {
		if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
			return nil, nil, err
		}
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		BatchID:    in.BatchID,
		Type:       entity.MovementTypeIN,
		Quantity:   in.Quantity,
		UnitID:     in.UnitID,
		Date:       date,
		SupplierID: in.SupplierID,
		CreatedAt:  now,
	}
	if err := mov.Validate(); err != nil {
		return nil, nil, err
	}

	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
	) error {
		// Primero la proyección: si el lote no existe, no se persiste nada.
		if err := batchRepo.AddQuantity(ctx, in.BatchID, in.Quantity); err != nil {
			return err
		}
		if err := movementRepo.Append(ctx, mov); err != nil {
			return err
		}
		b, err := batchRepo.GetByID(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, updated, nil
}

// RecordStockOut registra una salida. El decremento es condicional y atómico
// (check-and-decrement en un solo paso en el repositorio): si el stock no
// alcanza, la operación completa se rechaza con ErrInsufficientStock y el
// movimiento no se apendiza — la bitácora y la proyección nunca divergen.
func (uc *LedgerUseCase) RecordStockOut(ctx context.Context, in StockOutInput) (*entity.Movement, *entity.Batch, error) {
	if in.BatchID == "" || in.UnitID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if err := uc.checkUnit(ctx, in.UnitID); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		BatchID:       in.BatchID,
		Type:          entity.MovementTypeOUT,
		Quantity:      in.Quantity,
		UnitID:        in.UnitID,
		Date:          date,
		Reason:        in.Reason,
		TransactionID: in.TransactionID,
		CreatedAt:     now,
	}
	if err := mov.Validate(); err != nil {
		return nil, nil, err
	}

	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
	) error {
		if err := batchRepo.SubtractQuantity(ctx, in.BatchID, in.Quantity); err != nil {
			return err
		}
		if err := movementRepo.Append(ctx, mov); err != nil {
			return err
		}
		b, err := batchRepo.GetByID(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, updated, nil
}

// AdjustQuantity ajuste con signo: positivo enruta a RecordStockIn, negativo a
// RecordStockOut con |delta|; cero falla con ErrNoOpAdjustment.
func (uc *LedgerUseCase) AdjustQuantity(ctx context.Context, in AdjustInput) (*entity.Movement, *entity.Batch, error) {
	if in.Delta == 0 {
		return nil, nil, domain.ErrNoOpAdjustment
	}
	if in.Delta > 0 {
		return uc.RecordStockIn(ctx, StockInInput{
			BatchID:  in.BatchID,
			Quantity: in.Delta,
			UnitID:   in.UnitID,
		})
	}
	if in.Reason == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	return uc.RecordStockOut(ctx, StockOutInput{
		BatchID:  in.BatchID,
		Quantity: -in.Delta,
		UnitID:   in.UnitID,
		Reason:   in.Reason,
	})
}

// CanDelete indica si el lote está intacto: cantidad restante igual a la
// inicial Y cero movimientos registrados. Ambas condiciones se verifican
// aunque deberían ser equivalentes, por si la proyección llegara a derivar
// del historial.
func (uc *LedgerUseCase) CanDelete(ctx context.Context, batchID string) (bool, error) {
	b, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, domain.ErrNotFound
	}
	count, err := uc.movementRepo.CountByBatch(ctx, batchID)
	if err != nil {
		return false, err
	}
	return b.IsFresh() && count == 0, nil
}

// DeleteBatch elimina un lote intacto. La guarda se re-verifica con la fila
// bloqueada dentro de la misma transacción que el borrado, para cerrar la
// ventana contra un movimiento concurrente. Un lote con movimientos es
// permanentemente ineliminable: las correcciones se hacen con movimientos
// compensatorios, no borrando historia.
func (uc *LedgerUseCase) DeleteBatch(ctx context.Context, batchID string) error {
	return uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		movementRepo repository.MovementRepository,
	) error {
		b, err := batchRepo.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		count, err := movementRepo.CountByBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if !b.IsFresh() || count > 0 {
			return domain.ErrBatchHasMovements
		}
		return batchRepo.Delete(ctx, batchID)
	})
}

// GetBatchDetail devuelve el lote, su historial completo ordenado por fecha y
// los consumos por venta que lo referencian (para la vista de detalle).
func (uc *LedgerUseCase) GetBatchDetail(ctx context.Context, batchID string) (*BatchDetail, error) {
	b, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movementRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	detail := &BatchDetail{Batch: b, Movements: movements}
	for _, m := range movements {
		if m.Type == entity.MovementTypeOUT && m.TransactionID != "" {
			detail.Consumptions = append(detail.Consumptions, m)
		}
	}
	return detail, nil
}

func (uc *LedgerUseCase) checkProduct(ctx context.Context, id string) error {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *LedgerUseCase) checkSupplier(ctx context.Context, id string) error {
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *LedgerUseCase) checkUnit(ctx context.Context, id string) error {
	u, err := uc.unitRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return nil
}
