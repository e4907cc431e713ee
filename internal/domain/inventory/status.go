package inventory

// Clasificación de existencias (servicio de dominio, función pura).
// Se recalcula en cada lectura; nunca se persiste.
const (
	StatusCritical = "critical"
	StatusLow      = "low"
	StatusNormal   = "normal"
)

// StockStatus clasifica las existencias contra el punto de reorden:
// critical si qty <= 0, low si qty <= min, normal en otro caso.
func StockStatus(qty, min int64) string {
	if qty <= 0 {
		return StatusCritical
	}
	if qty <= min {
		return StatusLow
	}
	return StatusNormal
}
