package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.FolioRepository = (*FolioRepo)(nil)

// FolioRepo implementación de FolioRepository sobre PostgreSQL.
type FolioRepo struct {
	q Querier
}

// NewFolioRepository construye el adaptador del consecutivo de folios. Pasar pool o tx (Querier).
func NewFolioRepository(q Querier) *FolioRepo {
	return &FolioRepo{q: q}
}

// NextSeq incrementa y devuelve el consecutivo de (prefix, branch, period) en
// una sola sentencia. El upsert con RETURNING es atómico a nivel de fila:
// dos llamadas concurrentes se serializan en la base y reciben valores
// distintos. La primera llamada de un periodo crea la fila con seq = 1.
func (r *FolioRepo) NextSeq(prefix, branchID, period string) (int64, error) {
	query := `
		INSERT INTO folio_sequences (prefix, branch_id, period, seq, updated_at)
		VALUES ($1, $2, $3, 1, now())
		ON CONFLICT (prefix, branch_id, period)
		DO UPDATE SET seq = folio_sequences.seq + 1, updated_at = now()
		RETURNING seq`
	var seq int64
	err := r.q.QueryRow(context.Background(), query, prefix, branchID, period).Scan(&seq)
	if err != nil {
		if isUniqueViolation(err) || isSerializationFailure(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("next folio seq: %w", err)
	}
	return seq, nil
}
