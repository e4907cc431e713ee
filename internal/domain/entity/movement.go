package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeING    = "ING"     // ingreso (compra, devolución)
	MovementTypeEGR    = "EGR"     // egreso (consumo de refacción, merma)
	MovementTypeVTA    = "VTA"     // salida por venta
	MovementTypeAJU    = "AJU"     // ajuste con signo propio
	MovementTypeTRFOut = "TRF_OUT" // traspaso: salida en sucursal origen
	MovementTypeTRFIn  = "TRF_IN"  // traspaso: entrada en sucursal destino
)

// ValidMovementType reporta si el tipo pertenece al catálogo de movimientos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeING, MovementTypeEGR, MovementTypeVTA,
		MovementTypeAJU, MovementTypeTRFOut, MovementTypeTRFIn:
		return true
	}
	return false
}

// MovementSign signo del delta implícito por el tipo. AJU retorna 0:
// el ajuste trae su propio signo en la cantidad.
func MovementSign(t string) int64 {
	switch t {
	case MovementTypeING, MovementTypeTRFIn:
		return 1
	case MovementTypeEGR, MovementTypeVTA, MovementTypeTRFOut:
		return -1
	}
	return 0
}

// Movement registro inmutable del libro de inventario (append-only).
// Qty guarda el delta con signo ya aplicado; una vez escrito nunca se
// actualiza ni se borra.
type Movement struct {
	ID        string
	BranchID  string
	VariantID string
	Type      string
	Qty       int64 // delta con signo
	Reason    string
	Folio     string
	TicketID  string
	UserID    string
	IP        string
	UserAgent string
	CreatedAt time.Time
}
