package folio

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// Formato: "{PREFIX}-{BRANCH_CODE}-{YYYYMM}-{SEQ:04d}", ej. VTA-SUC01-202412-0001.
// El consecutivo vive en una fila por (prefijo, sucursal, periodo) y se
// incrementa con un upsert atómico; huecos por transacciones abortadas son
// aceptables, duplicados jamás.

var periodRe = regexp.MustCompile(`^\d{6}$`)

// UseCase genera folios consecutivos legibles por sucursal, tipo de
// documento y periodo.
type UseCase struct {
	folioRepo  repository.FolioRepository
	branchRepo repository.BranchRepository
	maxRetries int
	backoff    time.Duration
}

// New construye el generador. maxRetries acota los reintentos ante fallos de
// serialización del upsert.
func New(folioRepo repository.FolioRepository, branchRepo repository.BranchRepository, maxRetries int) *UseCase {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &UseCase{
		folioRepo:  folioRepo,
		branchRepo: branchRepo,
		maxRetries: maxRetries,
		backoff:    25 * time.Millisecond,
	}
}

// NextFolio emite el siguiente folio para (prefix, branchID, period).
// Estrictamente creciente por llave incluso bajo llamadas concurrentes; un
// conflicto de serialización se reintenta con backoff y, agotados los
// reintentos, se propaga como domain.ErrConflict.
func (uc *UseCase) NextFolio(ctx context.Context, prefix, branchID, period string) (string, error) {
	if prefix == "" || branchID == "" || !periodRe.MatchString(period) {
		return "", domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return "", err
	}
	if branch == nil {
		return "", domain.ErrNotFound
	}

	var seq int64
	for attempt := 0; ; attempt++ {
		seq, err = uc.folioRepo.NextSeq(prefix, branchID, period)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt+1 >= uc.maxRetries {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(uc.backoff * time.Duration(attempt+1)):
		}
	}
	return Format(prefix, branch.Code, period, seq), nil
}

// CurrentPeriod periodo año-mes en curso ("202412").
func CurrentPeriod(now time.Time) string {
	return now.Format("200601")
}

// Format arma el folio con el consecutivo a cuatro dígitos.
func Format(prefix, branchCode, period string, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%04d", prefix, branchCode, period, seq)
}
