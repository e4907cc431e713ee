package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ticket de reparación. El motor de ventas los consume en modo
// lectura para fijar el precio de líneas que referencian un ticket.
const (
	TicketStatusRecibido       = "RECIBIDO"
	TicketStatusDiagnostico    = "DIAGNOSTICO"
	TicketStatusEsperandoPieza = "ESPERANDO_PIEZA"
	TicketStatusEnReparacion   = "EN_REPARACION"
	TicketStatusReparado       = "REPARADO"
	TicketStatusEntregado      = "ENTREGADO"
	TicketStatusCancelado      = "CANCELADO"
)

// Ticket orden de reparación. El motor no gestiona su ciclo de vida completo;
// solo lee precio/anticipo y marca Billed al facturarlo.
type Ticket struct {
	ID             string
	Folio          string
	BranchID       string
	CustomerID     string
	Status         string
	Description    string
	EstimatedCost  decimal.Decimal
	FinalCost      decimal.Decimal
	AdvancePayment decimal.Decimal // anticipo entregado al recibir el equipo
	Billed         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BillablePrice precio a facturar: costo final si existe, si no el estimado.
// Se relee del ticket al momento de la venta; nunca se confía en el cliente.
func (t *Ticket) BillablePrice() decimal.Decimal {
	if t.FinalCost.GreaterThan(decimal.Zero) {
		return t.FinalCost
	}
	return t.EstimatedCost
}
