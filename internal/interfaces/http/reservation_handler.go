package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/reservation"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// ReservationHandler maneja el ciclo de vida de reservas de refacciones (protegido).
type ReservationHandler struct {
	uc *reservation.UseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Apartar refacción para un ticket
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ticket"
// @Param        body  body  dto.ReservePartRequest  true  "branch_id, variant_id, qty"
// @Success      201   {object}  dto.TicketPartResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tickets/{id}/parts [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	part, err := h.uc.Reserve(c.Context(), reservation.ReserveInput{
		TicketID:  c.Params("id"),
		BranchID:  in.BranchID,
		VariantID: in.VariantID,
		Qty:       in.Qty,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return reservationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTicketPartResponse(part))
}

// Consume godoc
// @Summary      Consumir reserva (instalar la refacción)
// @Description  Transición RESERVADA -> CONSUMIDA: descuenta existencias y
//
//	reservado juntos y registra un movimiento EGR.
//
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/consume [post]
func (h *ReservationHandler) Consume(c *fiber.Ctx) error {
	err := h.uc.Consume(c.Context(), c.Params("id"), GetUserID(c), c.IP(), c.Get("User-Agent"))
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva consumida"})
}

// Release godoc
// @Summary      Liberar reserva
// @Description  Transición RESERVADA -> LIBERADA: devuelve lo apartado al
//
//	disponible sin generar movimientos.
//
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	if err := h.uc.Release(c.Context(), c.Params("id")); err != nil {
		return reservationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// ListByTicket godoc
// @Summary      Reservas de un ticket
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ticket"
// @Success      200  {array}  dto.TicketPartResponse
// @Router       /api/tickets/{id}/parts [get]
func (h *ReservationHandler) ListByTicket(c *fiber.Ctx) error {
	parts, err := h.uc.ListByTicket(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.TicketPartResponse, 0, len(parts))
	for _, p := range parts {
		out = append(out, toTicketPartResponse(p))
	}
	return c.JSON(out)
}

func reservationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reserva o ticket no encontrado"})
	}
	if errors.Is(err, domain.ErrInsufficientAvailableStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrInvalidStateTransition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toTicketPartResponse(p *entity.TicketPart) dto.TicketPartResponse {
	return dto.TicketPartResponse{
		ID:        p.ID,
		TicketID:  p.TicketID,
		BranchID:  p.BranchID,
		VariantID: p.VariantID,
		Qty:       p.Qty,
		State:     p.State,
		CreatedAt: p.CreatedAt,
	}
}
