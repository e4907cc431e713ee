package entity

import "time"

// StockItem existencias materializadas de una variante en una sucursal.
// La cantidad es derivable del fold de movimientos; esta fila es la vista
// materializada que se actualiza en la misma transacción que cada movimiento.
// Invariantes: Qty >= 0 y 0 <= Reserved <= Qty.
type StockItem struct {
	BranchID  string
	VariantID string
	Qty       int64 // existencias físicas (on-hand)
	Min       int64 // punto de reorden
	Max       int64
	Reserved  int64 // apartado para tickets de reparación
	UpdatedAt time.Time
}

// Available existencias disponibles para venta o reserva.
func (s *StockItem) Available() int64 {
	return s.Qty - s.Reserved
}
