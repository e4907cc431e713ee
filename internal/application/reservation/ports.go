package reservation

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// TxRunner transacción con los repositorios que una transición de reserva
// necesita: la reserva, la existencia bloqueada y el libro (para el EGR que
// emite el consumo).
type TxRunner interface {
	RunReservation(ctx context.Context, fn func(
		partRepo repository.TicketPartRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// Eventos de dominio del ciclo de reservas.
const (
	EventPartReserved = "reservation.part_reserved"
	EventPartConsumed = "reservation.part_consumed"
	EventPartReleased = "reservation.part_released"
)

// EventPublisher publica eventos tras el commit (best effort).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}
