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

var _ repository.TicketPartRepository = (*TicketPartRepo)(nil)

// TicketPartRepo implementación de TicketPartRepository sobre PostgreSQL.
type TicketPartRepo struct {
	q Querier
}

// NewTicketPartRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewTicketPartRepository(q Querier) *TicketPartRepo {
	return &TicketPartRepo{q: q}
}

// Create persiste una reserva nueva (estado RESERVADA).
func (r *TicketPartRepo) Create(part *entity.TicketPart) error {
	query := `
		INSERT INTO ticket_parts (id, ticket_id, branch_id, variant_id, qty, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		part.ID, part.TicketID, part.BranchID, part.VariantID, part.Qty, part.State,
		part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ticket part: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por ID.
func (r *TicketPartRepo) GetByID(id string) (*entity.TicketPart, error) {
	query := `
		SELECT id, ticket_id, branch_id, variant_id, qty, state, created_at, updated_at
		FROM ticket_parts WHERE id = $1`
	var p entity.TicketPart
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.TicketID, &p.BranchID, &p.VariantID, &p.Qty, &p.State, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket part: %w", err)
	}
	return &p, nil
}

// GetForUpdate obtiene la reserva y bloquea la fila para la transición de estado.
func (r *TicketPartRepo) GetForUpdate(id string) (*entity.TicketPart, error) {
	query := `
		SELECT id, ticket_id, branch_id, variant_id, qty, state, created_at, updated_at
		FROM ticket_parts WHERE id = $1
		FOR UPDATE`
	var p entity.TicketPart
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.TicketID, &p.BranchID, &p.VariantID, &p.Qty, &p.State, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket part for update: %w", err)
	}
	return &p, nil
}

// UpdateState fija el nuevo estado. La validez de la transición la decide el
// caso de uso con la fila bloqueada; aquí solo se persiste.
func (r *TicketPartRepo) UpdateState(id, state string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE ticket_parts SET state = $2, updated_at = now() WHERE id = $1`,
		id, state,
	)
	if err != nil {
		return fmt.Errorf("update ticket part state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTicket lista las reservas de un ticket en orden de creación.
func (r *TicketPartRepo) ListByTicket(ticketID string) ([]*entity.TicketPart, error) {
	query := `
		SELECT id, ticket_id, branch_id, variant_id, qty, state, created_at, updated_at
		FROM ticket_parts WHERE ticket_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket parts: %w", err)
	}
	defer rows.Close()
	var list []*entity.TicketPart
	for rows.Next() {
		var p entity.TicketPart
		if err := rows.Scan(&p.ID, &p.TicketID, &p.BranchID, &p.VariantID, &p.Qty, &p.State,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
