package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

const txMaxRetries = 3

// TxRunner ejecuta unidades de trabajo dentro de una transacción de pgx,
// pasando a la función repositorios atados a esa tx. Los fallos de
// serialización / deadlock se reintentan con backoff antes de rendirse
// con domain.ErrConflict.
//
// Implementa inventory.TxRunner, reservation.TxRunner y sales.SaleTxRunner.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// withTx abre la transacción, ejecuta fn y confirma. El defer de Rollback es
// inocuo tras un Commit exitoso.
func (r *TxRunner) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < txMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
			}
		}

		err := func() error {
			tx, err := r.pool.Begin(ctx)
			if err != nil {
				return fmt.Errorf("iniciar transacción: %w", err)
			}
			defer tx.Rollback(ctx)

			if err := fn(tx); err != nil {
				return err
			}
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("confirmar transacción: %w", err)
			}
			return nil
		}()
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: transacción abortada tras %d reintentos: %v", domain.ErrConflict, txMaxRetries, lastErr)
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockRepository(tx))
	})
}

// RunReservation implementa reservation.TxRunner.
func (r *TxRunner) RunReservation(ctx context.Context, fn func(
	partRepo repository.TicketPartRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewTicketPartRepository(tx), NewStockRepository(tx), NewMovementRepository(tx))
	})
}

// RunSale implementa sales.SaleTxRunner.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	partRepo repository.TicketPartRepository,
	ticketRepo repository.TicketRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewSaleRepository(tx),
			NewMovementRepository(tx),
			NewStockRepository(tx),
			NewTicketPartRepository(tx),
			NewTicketRepository(tx),
		)
	})
}

// RunPayment implementa la parte de pagos de sales.SaleTxRunner.
func (r *TxRunner) RunPayment(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx))
	})
}
