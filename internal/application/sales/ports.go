package sales

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// SaleTxRunner transacciones del coordinador de ventas. RunSale incluye todos
// los repositorios que la unidad atómica venta + líneas + movimientos +
// reservas + pago necesita; RunPayment solo toca la cabecera y los pagos.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		partRepo repository.TicketPartRepository,
		ticketRepo repository.TicketRepository,
	) error) error

	RunPayment(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
	) error) error
}

// Eventos de dominio del módulo de ventas.
const (
	EventSaleCreated     = "sales.sale_created"
	EventPaymentRecorded = "sales.payment_recorded"
)

// EventPublisher publica eventos tras el commit (best effort).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

// ReceiptPDFGenerator puerto para la representación imprimible de la venta
// (nota de venta).
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		lines []*entity.SaleLine,
		branch *entity.Branch,
		customer *entity.Customer,
	) ([]byte, error)
}
