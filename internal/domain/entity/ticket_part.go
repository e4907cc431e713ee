package entity

import "time"

// Estados de una refacción apartada para un ticket de reparación.
// RESERVADA es el único estado no terminal.
const (
	PartStateReservada = "RESERVADA"
	PartStateConsumida = "CONSUMIDA"
	PartStateLiberada  = "LIBERADA"
)

// TicketPart reserva de una variante contra un ticket de reparación.
// Ciclo de vida: (nada) -> RESERVADA -> CONSUMIDA | LIBERADA.
// CONSUMIDA y LIBERADA son terminales.
type TicketPart struct {
	ID        string
	TicketID  string
	BranchID  string
	VariantID string
	Qty       int64
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reporta si la reserva ya no admite transiciones.
func (p *TicketPart) Terminal() bool {
	return p.State == PartStateConsumida || p.State == PartStateLiberada
}
