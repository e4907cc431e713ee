package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Qty es la magnitud (positiva) salvo AJU, que trae su propio signo.
// Los traspasos entre sucursales tienen su propio endpoint (TransferRequest).
type RegisterMovementRequest struct {
	BranchID  string `json:"branch_id"`
	VariantID string `json:"variant_id"`
	Type      string `json:"type"`
	Qty       int64  `json:"qty"`
	Reason    string `json:"reason,omitempty"`
	Folio     string `json:"folio,omitempty"`
	TicketID  string `json:"ticket_id,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers: genera TRF_OUT en
// origen y TRF_IN en destino dentro de una sola transacción.
type TransferRequest struct {
	FromBranchID string `json:"from_branch_id"`
	ToBranchID   string `json:"to_branch_id"`
	VariantID    string `json:"variant_id"`
	Qty          int64  `json:"qty"`
	Reason       string `json:"reason,omitempty"`
}

// MovementResponse movimiento del libro en respuestas.
type MovementResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	VariantID string    `json:"variant_id"`
	Type      string    `json:"type"`
	Qty       int64     `json:"qty"`
	Reason    string    `json:"reason,omitempty"`
	Folio     string    `json:"folio,omitempty"`
	TicketID  string    `json:"ticket_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockItemResponse existencias de una variante en una sucursal.
// Status se deriva en cada lectura (critical/low/normal), nunca se almacena.
type StockItemResponse struct {
	BranchID  string `json:"branch_id"`
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Model     string `json:"model,omitempty"`
	Category  string `json:"category,omitempty"`
	Qty       int64  `json:"qty"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	Reserved  int64  `json:"reserved"`
	Available int64  `json:"available"`
	Status    string `json:"status"`
}

// StockListResponse listado paginado de existencias.
type StockListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// ReservePartRequest body para POST /api/tickets/:id/parts.
type ReservePartRequest struct {
	BranchID  string `json:"branch_id"`
	VariantID string `json:"variant_id"`
	Qty       int64  `json:"qty"`
}

// TicketPartResponse reserva en respuestas.
type TicketPartResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	BranchID  string    `json:"branch_id"`
	VariantID string    `json:"variant_id"`
	Qty       int64     `json:"qty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
