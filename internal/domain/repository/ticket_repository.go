package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// TicketRepository puerto de lectura de tickets de reparación. El motor solo
// lee precio/anticipo y marca el ticket como facturado dentro de la venta.
type TicketRepository interface {
	GetByID(id string) (*entity.Ticket, error)
	// GetForUpdate bloquea el ticket durante la venta para que dos ventas
	// concurrentes no facturen el mismo ticket.
	GetForUpdate(id string) (*entity.Ticket, error)
	MarkBilled(id string) error
}
