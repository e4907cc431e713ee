package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// InventoryHandler maneja movimientos y consultas de existencias (protegido).
type InventoryHandler struct {
	uc    *inventory.RegisterMovementUseCase
	query *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, query *inventory.StockQueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ING/EGR/VTA/AJU sobre una (sucursal, variante).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "variant_id, type, qty"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	mov, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		BranchID:  in.BranchID,
		VariantID: in.VariantID,
		Type:      in.Type,
		Qty:       in.Qty,
		Reason:    in.Reason,
		Folio:     in.Folio,
		TicketID:  in.TicketID,
		UserID:    userID,
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:        mov.ID,
		BranchID:  mov.BranchID,
		VariantID: mov.VariantID,
		Type:      mov.Type,
		Qty:       mov.Qty,
		Reason:    mov.Reason,
		Folio:     mov.Folio,
		TicketID:  mov.TicketID,
		CreatedAt: mov.CreatedAt,
	})
}

// Transfer godoc
// @Summary      Traspaso entre sucursales
// @Description  Genera TRF_OUT en la sucursal origen y TRF_IN en la destino
//
//	dentro de una sola transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_branch_id, to_branch_id, variant_id, qty"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Transfer(c.Context(), inventory.TransferInput{
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		VariantID:    in.VariantID,
		Qty:          in.Qty,
		Reason:       in.Reason,
		UserID:       userID,
		IP:           c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traspaso registrado"})
}

func movementError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante o sucursal no encontrada"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// GetStock godoc
// @Summary      Existencias de una variante en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  true  "ID de la sucursal"
// @Param        variant_id  query  string  true  "ID de la variante"
// @Success      200  {object}  dto.StockItemResponse
// @Router       /api/inventory/stock/item [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	variantID := c.Query("variant_id")
	if branchID == "" || variantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y variant_id son requeridos"})
	}
	out, err := h.query.GetStock(c.Context(), branchID, variantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SearchStock godoc
// @Summary      Listado de existencias con filtros
// @Description  Filtros por sucursal, marca, modelo, categoría, estado
//
//	(critical/low/normal) y texto libre sin acentos sobre sku/nombre.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal"
// @Param        q          query  string  false  "Texto libre (sku, nombre, marca, modelo)"
// @Param        status     query  string  false  "critical | low | normal"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) SearchStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	out, err := h.query.SearchStock(c.Context(), repository.StockFilter{
		BranchID: c.Query("branch_id"),
		Brand:    c.Query("brand"),
		Model:    c.Query("model"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Text:     c.Query("q"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de una (sucursal, variante)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  true   "Sucursal"
// @Param        variant_id  query  string  true   "Variante"
// @Param        type        query  string  false  "Tipo de movimiento"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	variantID := c.Query("variant_id")
	if branchID == "" || variantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y variant_id son requeridos"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	filter := repository.MovementFilter{
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		filter.To = &t
	}
	out, err := h.query.ListMovements(c.Context(), branchID, variantID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
