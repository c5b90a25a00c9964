package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Lotes-api/internal/application/dto"
	"github.com/jhoicas/Lotes-api/internal/application/ledger"
	"github.com/jhoicas/Lotes-api/internal/domain"
	"github.com/jhoicas/Lotes-api/pkg/logger"
)

// BatchHandler maneja las peticiones HTTP del ledger de lotes (protegido).
type BatchHandler struct {
	uc      *ledger.LedgerUseCase
	queryUC *ledger.BatchQueryUseCase
	log     *logger.Logger
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *ledger.LedgerUseCase, queryUC *ledger.BatchQueryUseCase, log *logger.Logger) *BatchHandler {
	return &BatchHandler{uc: uc, queryUC: queryUC, log: log}
}

// Create godoc
// @Summary      Crear un lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, batch_code, expiry_date (futuro), initial_quantity, buy_price, unit_id, supplier_id opcional"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expiry, err := parseDate(in.ExpiryDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_date inválida (2006-01-02 o RFC3339)"})
	}
	b, err := h.uc.CreateBatch(c.Context(), ledger.CreateBatchInput{
		ProductID:       in.ProductID,
		BatchCode:       in.BatchCode,
		ExpiryDate:      expiry,
		InitialQuantity: in.InitialQuantity,
		BuyPrice:        in.BuyPrice,
		UnitID:          in.UnitID,
		SupplierID:      in.SupplierID,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewBatchResponse(b))
}

// List godoc
// @Summary      Listar lotes (filtrado, ordenado, paginado)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        page                  query  int     false  "Página (>= 1)"
// @Param        page_size             query  int     false  "Tamaño de página (default 20, máx 100)"
// @Param        sort_by               query  string  false  "created_at | expiry_date | remaining_quantity | buy_price"
// @Param        sort_dir              query  string  false  "asc | desc"
// @Param        search                query  string  false  "Substring sobre nombre de producto o código de lote"
// @Param        category_id           query  string  false  "Filtrar por categoría"
// @Param        expiry_date_start     query  string  false  "Desde (2006-01-02, inclusivo)"
// @Param        expiry_date_end       query  string  false  "Hasta (2006-01-02, inclusivo)"
// @Param        min_remaining         query  int     false  "Cantidad restante mínima"
// @Param        max_remaining         query  int     false  "Cantidad restante máxima"
// @Param        include_expired       query  bool    false  "Incluir vencidos (default true)"
// @Param        include_out_of_stock  query  bool    false  "Incluir agotados (default true)"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	in, err := h.parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	page, err := h.queryUC.ListBatches(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	items := make([]dto.BatchRowResponse, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, dto.NewBatchRowResponse(row))
	}
	return c.JSON(dto.BatchListResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Summary godoc
// @Summary      Resumen agregado de lotes
// @Description  Conteos {total, con stock, agotados, vencidos, próximos a vencer} sobre el conjunto filtrado.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BatchSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches/summary [get]
func (h *BatchHandler) Summary(c *fiber.Ctx) error {
	in, err := h.parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	sum, err := h.queryUC.GetSummary(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.BatchSummaryResponse{
		Total:        sum.Total,
		InStock:      sum.InStock,
		OutOfStock:   sum.OutOfStock,
		Expired:      sum.Expired,
		ExpiringSoon: sum.ExpiringSoon,
	})
}

// Report godoc
// @Summary      Reporte PDF de lotes
// @Description  Exporta el conjunto filtrado completo con resumen y valor total a precio de compra.
// @Tags         batches
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches/report [get]
func (h *BatchHandler) Report(c *fiber.Ctx) error {
	in, err := h.parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	pdf, err := h.queryUC.GenerateReport(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lotes.pdf"`)
	return c.Send(pdf)
}

// GetByID godoc
// @Summary      Detalle de un lote
// @Description  Lote con su historial completo de movimientos y los consumos por venta.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.BatchDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.uc.GetBatchDetail(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.BatchDetailResponse{
		Batch:        dto.NewBatchResponse(detail.Batch),
		Movements:    dto.NewMovementResponses(detail.Movements),
		Consumptions: dto.NewMovementResponses(detail.Consumptions),
	})
}

// CanDelete godoc
// @Summary      Elegibilidad de borrado
// @Description  true solo si el lote está intacto: cantidad igual a la inicial y cero movimientos.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.CanDeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/can-delete [get]
func (h *BatchHandler) CanDelete(c *fiber.Ctx) error {
	ok, err := h.uc.CanDelete(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.CanDeleteResponse{CanDelete: ok})
}

// Delete godoc
// @Summary      Eliminar un lote intacto
// @Description  Solo lotes sin movimientos y con cantidad intacta. Un lote con historia es permanentemente ineliminable.
// @Tags         batches
// @Security     Bearer
// @Param        id  path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBatch(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del lote"
// @Param        body  body  dto.StockInRequest  true  "quantity > 0, unit_id, date y supplier_id opcionales"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/stock-in [post]
func (h *BatchHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseOptionalDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválida (2006-01-02 o RFC3339)"})
	}
	mov, b, err := h.uc.RecordStockIn(c.Context(), ledger.StockInInput{
		BatchID:    c.Params("id"),
		Quantity:   in.Quantity,
		UnitID:     in.UnitID,
		Date:       date,
		SupplierID: in.SupplierID,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		Movement: dto.NewMovementResponse(mov),
		Batch:    dto.NewBatchResponse(b),
	})
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Description  Exactamente uno de reason (retiro manual) o transaction_id (venta). El decremento es atómico: si el stock no alcanza se rechaza completa.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del lote"
// @Param        body  body  dto.StockOutRequest  true  "quantity > 0, unit_id, reason XOR transaction_id"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/stock-out [post]
func (h *BatchHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date, err := parseOptionalDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválida (2006-01-02 o RFC3339)"})
	}
	mov, b, err := h.uc.RecordStockOut(c.Context(), ledger.StockOutInput{
		BatchID:       c.Params("id"),
		Quantity:      in.Quantity,
		UnitID:        in.UnitID,
		Date:          date,
		Reason:        in.Reason,
		TransactionID: in.TransactionID,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		Movement: dto.NewMovementResponse(mov),
		Batch:    dto.NewBatchResponse(b),
	})
}

// Adjust godoc
// @Summary      Ajustar cantidad con delta con signo
// @Description  delta > 0 registra una entrada; delta < 0 una salida con reason obligatorio; delta = 0 se rechaza.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del lote"
// @Param        body  body  dto.AdjustRequest  true  "delta != 0, unit_id, reason (obligatorio si delta < 0)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/adjust [post]
func (h *BatchHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, b, err := h.uc.AdjustQuantity(c.Context(), ledger.AdjustInput{
		BatchID: c.Params("id"),
		Delta:   in.Delta,
		Reason:  in.Reason,
		UnitID:  in.UnitID,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{
		Movement: dto.NewMovementResponse(mov),
		Batch:    dto.NewBatchResponse(b),
	})
}

// parseListQuery traduce los query params al input del motor de listados.
func (h *BatchHandler) parseListQuery(c *fiber.Ctx) (ledger.ListBatchesInput, error) {
	var q dto.ListBatchesQuery
	if err := c.QueryParser(&q); err != nil {
		return ledger.ListBatchesInput{}, fmt.Errorf("query inválido")
	}
	in := ledger.ListBatchesInput{
		Page:                 q.Page,
		PageSize:             q.PageSize,
		SortField:            q.SortBy,
		SortDirection:        q.SortDir,
		Search:               q.Search,
		CategoryID:           q.CategoryID,
		MinRemainingQuantity: q.MinRemaining,
		MaxRemainingQuantity: q.MaxRemaining,
		IncludeExpired:       q.IncludeExpired,
		IncludeOutOfStock:    q.IncludeOutOfStock,
	}
	if q.ExpiryDateStart != "" {
		t, err := parseDate(q.ExpiryDateStart)
		if err != nil {
			return ledger.ListBatchesInput{}, fmt.Errorf("expiry_date_start inválida (2006-01-02)")
		}
		in.ExpiryDateStart = &t
	}
	if q.ExpiryDateEnd != "" {
		t, err := parseDate(q.ExpiryDateEnd)
		if err != nil {
			return ledger.ListBatchesInput{}, fmt.Errorf("expiry_date_end inválida (2006-01-02)")
		}
		in.ExpiryDateEnd = &t
	}
	return in, nil
}

// mapError traduce los sentinelas del dominio a códigos HTTP.
func (h *BatchHandler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput, domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "código de lote duplicado para el producto"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case domain.ErrBatchHasMovements:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_HAS_MOVEMENTS", Message: err.Error()})
	case domain.ErrExpiredOnArrival:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXPIRED_ON_ARRIVAL", Message: err.Error()})
	case domain.ErrInvalidMovement:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT", Message: err.Error()})
	case domain.ErrNoOpAdjustment:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_OP_ADJUSTMENT", Message: err.Error()})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// parseDate acepta "2006-01-02" o RFC3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseOptionalDate como parseDate pero vacío devuelve el cero de time.Time.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}
