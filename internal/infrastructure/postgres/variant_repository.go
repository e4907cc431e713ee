package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación de VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador del catálogo de variantes. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// searchText texto de búsqueda precalculado: sku + nombre + marca + modelo,
// sin acentos y en minúsculas. Se recalcula en cada escritura.
func searchText(v *entity.Variant) string {
	return foldText(strings.Join([]string{v.SKU, v.Name, v.Brand, v.Model}, " "))
}

// Create persiste una variante nueva. El SKU tiene restricción única.
func (r *VariantRepo) Create(v *entity.Variant) error {
	query := `
		INSERT INTO variants (id, sku, name, description, brand, model, category, price, cost, active, search_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.SKU, v.Name, v.Description, v.Brand, v.Model, v.Category,
		v.Price, v.Cost, v.Active, searchText(v), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// Update actualiza los datos maestros de la variante. No toca existencias.
func (r *VariantRepo) Update(v *entity.Variant) error {
	query := `
		UPDATE variants SET name = $2, description = $3, brand = $4, model = $5,
			category = $6, price = $7, cost = $8, search_text = $9, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.Description, v.Brand, v.Model, v.Category, v.Price, v.Cost, searchText(v),
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate borrado lógico: la variante deja de listarse pero los movimientos
// históricos siguen apuntando a ella.
func (r *VariantRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE variants SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate variant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const variantColumns = `id, sku, name, description, brand, model, category, price, cost, active, created_at, updated_at`

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	err := row.Scan(
		&v.ID, &v.SKU, &v.Name, &v.Description, &v.Brand, &v.Model, &v.Category,
		&v.Price, &v.Cost, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(context.Background(),
		`SELECT `+variantColumns+` FROM variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// GetBySKU obtiene una variante por SKU.
func (r *VariantRepo) GetBySKU(sku string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(context.Background(),
		`SELECT `+variantColumns+` FROM variants WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant by sku: %w", err)
	}
	return v, nil
}

// List lista variantes activas con paginación.
func (r *VariantRepo) List(limit, offset int) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE active = true ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
