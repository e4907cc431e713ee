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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// El libro es append-only: solo INSERT y SELECT, jamás UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del libro de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create registra un movimiento en el libro. Qty ya trae el signo aplicado.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (id, branch_id, variant_id, type, qty, reason, folio, ticket_id, user_id, ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.BranchID, m.VariantID, m.Type, m.Qty, m.Reason, m.Folio,
		m.TicketID, m.UserID, m.IP, m.UserAgent, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, branch_id, variant_id, type, qty, reason, folio, COALESCE(ticket_id::text, ''), COALESCE(user_id::text, ''), ip, user_agent, created_at
		FROM inventory_movements WHERE id = $1`
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.BranchID, &m.VariantID, &m.Type, &m.Qty, &m.Reason, &m.Folio,
		&m.TicketID, &m.UserID, &m.IP, &m.UserAgent, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByKey historial de una (sucursal, variante) en orden cronológico ascendente.
func (r *MovementRepo) ListByKey(branchID, variantID string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, branch_id, variant_id, type, qty, reason, folio, COALESCE(ticket_id::text, ''), COALESCE(user_id::text, ''), ip, user_agent, created_at
		FROM inventory_movements WHERE branch_id = $1 AND variant_id = $2`
	args := []any{branchID, variantID}
	pos := 3
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.BranchID, &m.VariantID, &m.Type, &m.Qty, &m.Reason,
			&m.Folio, &m.TicketID, &m.UserID, &m.IP, &m.UserAgent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByKey fold de todos los deltas de la llave. Debe coincidir con la
// cantidad materializada en stock_items; se usa como verificación del libro.
func (r *MovementRepo) SumByKey(branchID, variantID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(qty), 0) FROM inventory_movements WHERE branch_id = $1 AND variant_id = $2`,
		branchID, variantID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
