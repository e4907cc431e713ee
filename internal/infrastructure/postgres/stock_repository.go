package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/inventory"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene las existencias de una variante en una sucursal. Si no hay fila,
// devuelve un StockItem en cero: la ausencia de fila equivale a cero existencias.
func (r *StockRepo) Get(branchID, variantID string) (*entity.StockItem, error) {
	query := `
		SELECT branch_id, variant_id, qty, min_qty, max_qty, reserved, updated_at
		FROM stock_items WHERE branch_id = $1 AND variant_id = $2`
	var s entity.StockItem
	err := r.q.QueryRow(context.Background(), query, branchID, variantID).Scan(
		&s.BranchID, &s.VariantID, &s.Qty, &s.Min, &s.Max, &s.Reserved, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockItem{BranchID: branchID, VariantID: variantID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene las existencias y bloquea la fila (SELECT FOR UPDATE).
// Si la fila no existe todavía se siembra en cero y se vuelve a bloquear: sin
// fila no hay lock, y dos primeros movimientos concurrentes de la misma llave
// leerían cero a la vez y el segundo pisaría el delta del primero.
func (r *StockRepo) GetForUpdate(branchID, variantID string) (*entity.StockItem, error) {
	query := `
		SELECT branch_id, variant_id, qty, min_qty, max_qty, reserved, updated_at
		FROM stock_items WHERE branch_id = $1 AND variant_id = $2
		FOR UPDATE`
	var s entity.StockItem
	err := r.q.QueryRow(context.Background(), query, branchID, variantID).Scan(
		&s.BranchID, &s.VariantID, &s.Qty, &s.Min, &s.Max, &s.Reserved, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		seed := `
			INSERT INTO stock_items (branch_id, variant_id, qty, min_qty, max_qty, reserved, updated_at)
			VALUES ($1, $2, 0, 0, 0, 0, now())
			ON CONFLICT (branch_id, variant_id) DO NOTHING`
		if _, err := r.q.Exec(context.Background(), seed, branchID, variantID); err != nil {
			return nil, fmt.Errorf("seed stock: %w", err)
		}
		// El INSERT serializa por la llave primaria contra inserciones
		// concurrentes; al reintentar, el SELECT bloquea la fila ya confirmada
		// y lee sus valores actuales.
		err = r.q.QueryRow(context.Background(), query, branchID, variantID).Scan(
			&s.BranchID, &s.VariantID, &s.Qty, &s.Min, &s.Max, &s.Reserved, &s.UpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza las existencias de (sucursal, variante).
func (r *StockRepo) Upsert(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (branch_id, variant_id, qty, min_qty, max_qty, reserved, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (branch_id, variant_id)
		DO UPDATE SET qty = EXCLUDED.qty, min_qty = EXCLUDED.min_qty,
			max_qty = EXCLUDED.max_qty, reserved = EXCLUDED.reserved, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		item.BranchID, item.VariantID, item.Qty, item.Min, item.Max, item.Reserved,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// Search lista existencias con datos maestros de la variante, con filtros y
// paginación. El filtro de texto compara contra search_text (sin acentos).
func (r *StockRepo) Search(filter repository.StockFilter) ([]*repository.StockItemWithVariant, int, error) {
	base := `
		FROM stock_items s
		JOIN variants v ON v.id = s.variant_id
		WHERE v.active = true`
	args := []any{}
	pos := 1
	if filter.BranchID != "" {
		base += fmt.Sprintf(" AND s.branch_id = $%d", pos)
		args = append(args, filter.BranchID)
		pos++
	}
	if filter.Brand != "" {
		base += fmt.Sprintf(" AND v.brand ILIKE $%d", pos)
		args = append(args, filter.Brand)
		pos++
	}
	if filter.Model != "" {
		base += fmt.Sprintf(" AND v.model ILIKE $%d", pos)
		args = append(args, filter.Model)
		pos++
	}
	if filter.Category != "" {
		base += fmt.Sprintf(" AND v.category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Text != "" {
		base += fmt.Sprintf(" AND v.search_text LIKE $%d", pos)
		args = append(args, "%"+foldText(filter.Text)+"%")
		pos++
	}
	switch filter.Status {
	case inventory.StatusCritical:
		base += " AND s.qty <= 0"
	case inventory.StatusLow:
		base += " AND s.qty > 0 AND s.qty <= s.min_qty"
	case inventory.StatusNormal:
		base += " AND s.qty > s.min_qty"
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock: %w", err)
	}

	query := `
		SELECT s.branch_id, s.variant_id, s.qty, s.min_qty, s.max_qty, s.reserved, s.updated_at,
			v.sku, v.name, v.brand, v.model, v.category ` + base +
		fmt.Sprintf(" ORDER BY v.name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search stock: %w", err)
	}
	defer rows.Close()

	var list []*repository.StockItemWithVariant
	for rows.Next() {
		var it repository.StockItemWithVariant
		if err := rows.Scan(
			&it.BranchID, &it.VariantID, &it.Qty, &it.Min, &it.Max, &it.Reserved, &it.UpdatedAt,
			&it.SKU, &it.Name, &it.Brand, &it.Model, &it.Category,
		); err != nil {
			return nil, 0, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &it)
	}
	return list, total, rows.Err()
}
