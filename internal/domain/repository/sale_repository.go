package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// SaleFilter filtros para el listado de ventas.
type SaleFilter struct {
	BranchID   string
	CustomerID string
	TicketID   string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleRepository puerto de persistencia para ventas, líneas y pagos.
// Las líneas y los pagos son append-only; la cabecera solo muta en
// paid_amount/status al registrar abonos.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	CreatePayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera para recalcular pagado/estado.
	GetForUpdate(id string) (*entity.Sale, error)
	UpdatePaid(id string, paidAmount decimal.Decimal, status string) error
	GetLines(saleID string) ([]*entity.SaleLine, error)
	GetPayments(saleID string) ([]*entity.Payment, error)
	Search(filter SaleFilter) ([]*entity.Sale, int, error)
}
