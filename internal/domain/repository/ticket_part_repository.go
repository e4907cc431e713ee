package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// TicketPartRepository puerto de persistencia para reservas de refacciones.
// Toda transición de estado pasa por el Reservation Manager; el repositorio
// solo persiste lo que aquel decide.
type TicketPartRepository interface {
	Create(part *entity.TicketPart) error
	GetByID(id string) (*entity.TicketPart, error)
	// GetForUpdate bloquea la fila de la reserva para la transición de estado.
	GetForUpdate(id string) (*entity.TicketPart, error)
	UpdateState(id, state string) error
	ListByTicket(ticketID string) ([]*entity.TicketPart, error)
}
