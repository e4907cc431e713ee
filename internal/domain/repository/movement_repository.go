package repository

import (
	"time"

	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository puerto de persistencia del libro de movimientos.
// El libro es append-only: no existe Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// ListByKey historial de una (sucursal, variante), orden created_at ascendente.
	ListByKey(branchID, variantID string, filter MovementFilter) ([]*entity.Movement, error)
	// SumByKey fold de todos los deltas de la llave (verificación del libro).
	SumByKey(branchID, variantID string) (int64, error)
}
