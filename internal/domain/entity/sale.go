package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusPaid      = "PAID"
	SaleStatusCancelled = "CANCELLED"
)

// Tipos de línea de venta. Una línea referencia una variante de producto o
// un ticket de reparación terminado, nunca ambos.
const (
	LineKindVariant = "VARIANT"
	LineKindTicket  = "TICKET"
)

// Sale cabecera de venta. Se crea de forma atómica con sus líneas y el primer
// pago; después solo muta agregando pagos (nunca se editan líneas).
type Sale struct {
	ID             string
	Folio          string
	BranchID       string
	CustomerID     string
	TicketID       string
	CashRegisterID string
	Status         string
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	PaidAmount     decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Outstanding saldo pendiente de pago.
func (s *Sale) Outstanding() decimal.Decimal {
	return s.Total.Sub(s.PaidAmount)
}

// SaleLine línea de venta. Kind indica el payload activo:
// VARIANT usa VariantID (y opcionalmente TicketPartID si la línea consume una
// reserva existente); TICKET usa TicketID con cantidad fija 1.
type SaleLine struct {
	ID           string
	SaleID       string
	Kind         string
	VariantID    string
	TicketID     string
	TicketPartID string
	Description  string
	Qty          int64
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	Subtotal     decimal.Decimal
}

// Métodos de pago aceptados.
const (
	PaymentMethodEfectivo      = "EFECTIVO"
	PaymentMethodTarjeta       = "TARJETA"
	PaymentMethodTransferencia = "TRANSFERENCIA"
)

// Payment abono contra una venta (append-only).
type Payment struct {
	ID        string
	SaleID    string
	Amount    decimal.Decimal
	Method    string
	Reference string
	CreatedBy string
	CreatedAt time.Time
}
