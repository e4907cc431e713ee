package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. Exactamente uno de variant_id o ticket_id.
// Si la línea proviene de consumir una reserva existente se envía
// ticket_part_id y el descuento de stock sale de la reserva, no del disponible.
// Para líneas de ticket la cantidad es 1 y el precio se relee del ticket.
type SaleLineRequest struct {
	VariantID    string          `json:"variant_id,omitempty"`
	TicketID     string          `json:"ticket_id,omitempty"`
	TicketPartID string          `json:"ticket_part_id,omitempty"`
	Description  string          `json:"description,omitempty"`
	Qty          int64           `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
}

// SalePaymentRequest pago inicial (o abono posterior vía POST /payments).
type SalePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	BranchID        string             `json:"branch_id"`
	CustomerID      string             `json:"customer_id,omitempty"`
	CashRegisterID  string             `json:"cash_register_id,omitempty"`
	Lines           []SaleLineRequest  `json:"lines"`
	Discount        decimal.Decimal    `json:"discount"`
	DiscountPercent bool               `json:"discount_percent"`
	Payment         SalePaymentRequest `json:"payment"`
}

// SaleLineResponse línea en respuestas.
type SaleLineResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	VariantID   string          `json:"variant_id,omitempty"`
	TicketID    string          `json:"ticket_id,omitempty"`
	Description string          `json:"description"`
	Qty         int64           `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SaleResponse venta con líneas y pagos.
type SaleResponse struct {
	ID             string             `json:"id"`
	Folio          string             `json:"folio"`
	BranchID       string             `json:"branch_id"`
	CustomerID     string             `json:"customer_id,omitempty"`
	TicketID       string             `json:"ticket_id,omitempty"`
	Status         string             `json:"status"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Tax            decimal.Decimal    `json:"tax"`
	Total          decimal.Decimal    `json:"total"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	CreatedAt      time.Time          `json:"created_at"`
	Lines          []SaleLineResponse `json:"lines,omitempty"`
	Payments       []PaymentResponse  `json:"payments,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AddPaymentRequest body para POST /api/sales/:id/payments.
type AddPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}
