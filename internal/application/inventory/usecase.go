package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	domaininv "github.com/tu-usuario/taller-pro/internal/domain/inventory"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos del libro de inventario de
// forma transaccional (ING, EGR, VTA, AJU, TRF_OUT, TRF_IN) con bloqueo de
// fila (SELECT FOR UPDATE) sobre la existencia materializada.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	branchRepo  repository.BranchRepository
	events      EventPublisher
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	branchRepo repository.BranchRepository,
	events EventPublisher,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		branchRepo:  branchRepo,
		events:      events,
	}
}

// MovementInput entrada para registrar un movimiento.
// Qty es la magnitud positiva salvo AJU, que trae su propio signo.
// UserID/IP/UserAgent son el actor que queda en el registro inmutable.
type MovementInput struct {
	BranchID  string
	VariantID string
	Type      string
	Qty       int64
	Reason    string
	Folio     string
	TicketID  string
	UserID    string
	IP        string
	UserAgent string
}

// TransferInput entrada para un traspaso entre sucursales: genera TRF_OUT en
// origen y TRF_IN en destino dentro de la misma transacción.
type TransferInput struct {
	FromBranchID string
	ToBranchID   string
	VariantID    string
	Qty          int64
	Reason       string
	UserID       string
	IP           string
	UserAgent    string
}

// RegisterMovement valida entrada y catálogo, abre la transacción, bloquea la
// fila de existencias, aplica el delta y persiste el movimiento. Rechaza con
// ErrInsufficientStock si el resultado dejaría qty negativo o por debajo de
// lo reservado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if !entity.ValidMovementType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.BranchID == "" || in.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	delta := in.Qty
	if in.Type == entity.MovementTypeAJU {
		if delta == 0 {
			return nil, domain.ErrInvalidInput
		}
	} else {
		if delta <= 0 {
			return nil, domain.ErrInvalidInput
		}
		delta = entity.MovementSign(in.Type) * delta
	}

	variant, err := uc.variantRepo.GetByID(in.VariantID)
	if err != nil || variant == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var mov *entity.Movement
	var qtyAfter, minAfter int64

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		m, stock, err := applyDelta(movRepo, stockRepo, in, delta, now)
		if err != nil {
			return err
		}
		mov = m
		qtyAfter, minAfter = stock.Qty, stock.Min
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishAfterCommit(ctx, mov, qtyAfter, minAfter)
	return mov, nil
}

// Transfer resta en la sucursal origen y suma en la destino dentro de una sola
// transacción, dejando los dos registros del traspaso en el libro.
func (uc *RegisterMovementUseCase) Transfer(ctx context.Context, in TransferInput) error {
	if in.FromBranchID == "" || in.ToBranchID == "" || in.VariantID == "" {
		return domain.ErrInvalidInput
	}
	if in.FromBranchID == in.ToBranchID || in.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	variant, err := uc.variantRepo.GetByID(in.VariantID)
	if err != nil || variant == nil {
		return domain.ErrNotFound
	}
	from, _ := uc.branchRepo.GetByID(in.FromBranchID)
	to, _ := uc.branchRepo.GetByID(in.ToBranchID)
	if from == nil || to == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	reason := in.Reason
	if reason == "" {
		reason = fmt.Sprintf("traspaso %s -> %s", from.Code, to.Code)
	}
	base := MovementInput{
		VariantID: in.VariantID,
		Reason:    reason,
		UserID:    in.UserID,
		IP:        in.IP,
		UserAgent: in.UserAgent,
	}

	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
	) error {
		out := base
		out.BranchID = in.FromBranchID
		out.Type = entity.MovementTypeTRFOut
		if _, _, err := applyDelta(movRepo, stockRepo, out, -in.Qty, now); err != nil {
			return err
		}
		inMov := base
		inMov.BranchID = in.ToBranchID
		inMov.Type = entity.MovementTypeTRFIn
		_, _, err := applyDelta(movRepo, stockRepo, inMov, in.Qty, now)
		return err
	})
}

// ApplyVTAInTx registra la salida por venta de una línea usando los
// repositorios del caller (misma transacción de la venta). La salida respeta
// lo reservado: solo puede consumir existencias disponibles.
func (uc *RegisterMovementUseCase) ApplyVTAInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	branchID, variantID string,
	qty int64,
	folio, userID, ip, userAgent string,
	now time.Time,
) error {
	in := MovementInput{
		BranchID:  branchID,
		VariantID: variantID,
		Type:      entity.MovementTypeVTA,
		Folio:     folio,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
	}
	_, _, err := applyDelta(movRepo, stockRepo, in, -qty, now)
	return err
}

// applyDelta núcleo del libro: bloquea la fila, valida invariantes
// (qty >= 0, reserved <= qty), materializa el nuevo total y agrega el
// movimiento. La fila de stock se crea perezosamente en el primer movimiento.
func applyDelta(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	in MovementInput,
	delta int64,
	now time.Time,
) (*entity.Movement, *entity.StockItem, error) {
	stock, err := stockRepo.GetForUpdate(in.BranchID, in.VariantID)
	if err != nil {
		return nil, nil, err
	}
	newQty := stock.Qty + delta
	if newQty < 0 {
		return nil, nil, fmt.Errorf("%w: solicitado %d, en existencia %d", domain.ErrInsufficientStock, -delta, stock.Qty)
	}
	if newQty < stock.Reserved {
		return nil, nil, fmt.Errorf("%w: solicitado %d, disponible %d (reservado %d)",
			domain.ErrInsufficientStock, -delta, stock.Available(), stock.Reserved)
	}
	stock.Qty = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, nil, err
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		BranchID:  in.BranchID,
		VariantID: in.VariantID,
		Type:      in.Type,
		Qty:       delta,
		Reason:    in.Reason,
		Folio:     in.Folio,
		TicketID:  in.TicketID,
		UserID:    in.UserID,
		IP:        in.IP,
		UserAgent: in.UserAgent,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	return mov, stock, nil
}

// publishAfterCommit emite los eventos del movimiento ya confirmado.
func (uc *RegisterMovementUseCase) publishAfterCommit(ctx context.Context, mov *entity.Movement, qty, min int64) {
	if uc.events == nil {
		return
	}
	uc.events.Publish(ctx, EventMovementRecorded, mov)
	status := domaininv.StockStatus(qty, min)
	if status != domaininv.StatusNormal {
		uc.events.Publish(ctx, EventStockLow, map[string]any{
			"branch_id":  mov.BranchID,
			"variant_id": mov.VariantID,
			"qty":        qty,
			"min":        min,
			"status":     status,
		})
	}
}
