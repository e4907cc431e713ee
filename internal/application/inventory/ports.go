package inventory

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad movimiento + stock.
// La implementación reintenta fallos de serialización antes de rendirse
// con domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// Eventos de dominio emitidos por el motor de inventario.
const (
	EventMovementRecorded = "inventory.movement_recorded"
	EventStockLow         = "inventory.stock_low"
)

// EventPublisher publica eventos de dominio tras el commit (best effort:
// un fallo de publicación nunca afecta la transacción ya confirmada).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}
