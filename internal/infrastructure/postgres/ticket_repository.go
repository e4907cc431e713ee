package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo implementación de TicketRepository sobre PostgreSQL.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador de tickets. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, folio, branch_id, customer_id, status, description,
	estimated_cost, final_cost, advance_payment, billed, created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(
		&t.ID, &t.Folio, &t.BranchID, &t.CustomerID, &t.Status, &t.Description,
		&t.EstimatedCost, &t.FinalCost, &t.AdvancePayment, &t.Billed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID obtiene un ticket por ID.
func (r *TicketRepo) GetByID(id string) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(context.Background(),
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// GetForUpdate obtiene el ticket y bloquea la fila durante la venta.
func (r *TicketRepo) GetForUpdate(id string) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(context.Background(),
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket for update: %w", err)
	}
	return t, nil
}

// MarkBilled marca el ticket como facturado.
func (r *TicketRepo) MarkBilled(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE tickets SET billed = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark ticket billed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
