package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// UseCase ciclo de vida de refacciones apartadas contra tickets:
//
//	(nada) --Reserve--> RESERVADA
//	RESERVADA --Consume--> CONSUMIDA  (EGR en el libro, baja qty y reserved)
//	RESERVADA --Release--> LIBERADA   (baja reserved, sin movimiento)
//
// CONSUMIDA y LIBERADA son terminales. Toda transición muta la reserva y la
// existencia en la misma transacción.
type UseCase struct {
	txRunner TxRunner
	partRepo repository.TicketPartRepository
	events   EventPublisher
}

// New construye el caso de uso.
func New(txRunner TxRunner, partRepo repository.TicketPartRepository, events EventPublisher) *UseCase {
	return &UseCase{txRunner: txRunner, partRepo: partRepo, events: events}
}

// ReserveInput entrada para apartar una refacción.
type ReserveInput struct {
	TicketID  string
	BranchID  string
	VariantID string
	Qty       int64
	UserID    string
}

// Reserve aparta qty unidades para un ticket. Falla con
// ErrInsufficientAvailableStock si qty excede lo disponible (qty - reserved).
func (uc *UseCase) Reserve(ctx context.Context, in ReserveInput) (*entity.TicketPart, error) {
	if in.TicketID == "" || in.BranchID == "" || in.VariantID == "" || in.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	part := &entity.TicketPart{
		ID:        uuid.New().String(),
		TicketID:  in.TicketID,
		BranchID:  in.BranchID,
		VariantID: in.VariantID,
		Qty:       in.Qty,
		State:     entity.PartStateReservada,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.RunReservation(ctx, func(
		partRepo repository.TicketPartRepository,
		stockRepo repository.StockRepository,
		_ repository.MovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(in.BranchID, in.VariantID)
		if err != nil {
			return err
		}
		if in.Qty > stock.Available() {
			return fmt.Errorf("%w: solicitado %d, disponible %d",
				domain.ErrInsufficientAvailableStock, in.Qty, stock.Available())
		}
		stock.Reserved += in.Qty
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		return partRepo.Create(part)
	})
	if err != nil {
		return nil, err
	}
	if uc.events != nil {
		uc.events.Publish(ctx, EventPartReserved, part)
	}
	return part, nil
}

// Consume factura la reserva: baja qty y reserved juntos y deja el EGR en el
// libro. Solo válido desde RESERVADA.
func (uc *UseCase) Consume(ctx context.Context, partID, userID, ip, userAgent string) error {
	now := time.Now()
	var consumed *entity.TicketPart
	err := uc.txRunner.RunReservation(ctx, func(
		partRepo repository.TicketPartRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		part, err := uc.consumeInTx(partRepo, stockRepo, movRepo, partID, "", userID, ip, userAgent, now)
		if err != nil {
			return err
		}
		consumed = part
		return nil
	})
	if err != nil {
		return err
	}
	if uc.events != nil {
		uc.events.Publish(ctx, EventPartConsumed, consumed)
	}
	return nil
}

// ConsumeInTx versión para el coordinador de ventas: ejecuta el consumo con
// los repositorios del caller (misma transacción de la venta) y referencia el
// folio de la venta en el EGR.
func (uc *UseCase) ConsumeInTx(
	partRepo repository.TicketPartRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	partID, saleFolio, userID, ip, userAgent string,
	now time.Time,
) (*entity.TicketPart, error) {
	return uc.consumeInTx(partRepo, stockRepo, movRepo, partID, saleFolio, userID, ip, userAgent, now)
}

func (uc *UseCase) consumeInTx(
	partRepo repository.TicketPartRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	partID, folio, userID, ip, userAgent string,
	now time.Time,
) (*entity.TicketPart, error) {
	part, err := partRepo.GetForUpdate(partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if part.State != entity.PartStateReservada {
		return nil, fmt.Errorf("%w: %s -> CONSUMIDA", domain.ErrInvalidStateTransition, part.State)
	}
	stock, err := stockRepo.GetForUpdate(part.BranchID, part.VariantID)
	if err != nil {
		return nil, err
	}
	// qty y reserved bajan juntos: el disponible no cambia, el invariante
	// reserved <= qty se conserva.
	stock.Qty -= part.Qty
	stock.Reserved -= part.Qty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		BranchID:  part.BranchID,
		VariantID: part.VariantID,
		Type:      entity.MovementTypeEGR,
		Qty:       -part.Qty,
		Reason:    "consumo de reserva",
		Folio:     folio,
		TicketID:  part.TicketID,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	if err := partRepo.UpdateState(part.ID, entity.PartStateConsumida); err != nil {
		return nil, err
	}
	part.State = entity.PartStateConsumida
	part.UpdatedAt = now
	return part, nil
}

// Release devuelve la refacción no usada: baja reserved sin tocar qty ni el
// libro. Solo válido desde RESERVADA.
func (uc *UseCase) Release(ctx context.Context, partID string) error {
	now := time.Now()
	var released *entity.TicketPart
	err := uc.txRunner.RunReservation(ctx, func(
		partRepo repository.TicketPartRepository,
		stockRepo repository.StockRepository,
		_ repository.MovementRepository,
	) error {
		part, err := partRepo.GetForUpdate(partID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		if part.State != entity.PartStateReservada {
			return fmt.Errorf("%w: %s -> LIBERADA", domain.ErrInvalidStateTransition, part.State)
		}
		stock, err := stockRepo.GetForUpdate(part.BranchID, part.VariantID)
		if err != nil {
			return err
		}
		stock.Reserved -= part.Qty
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		if err := partRepo.UpdateState(part.ID, entity.PartStateLiberada); err != nil {
			return err
		}
		part.State = entity.PartStateLiberada
		released = part
		return nil
	})
	if err != nil {
		return err
	}
	if uc.events != nil {
		uc.events.Publish(ctx, EventPartReleased, released)
	}
	return nil
}

// ListByTicket reservas de un ticket (lectura).
func (uc *UseCase) ListByTicket(ctx context.Context, ticketID string) ([]*entity.TicketPart, error) {
	return uc.partRepo.ListByTicket(ticketID)
}
