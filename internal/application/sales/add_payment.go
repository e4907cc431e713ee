package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// AddPaymentUseCase agrega abonos a una venta y recalcula pagado/estado.
// Política de sobrepago: rechazo estricto — un abono nunca puede exceder el
// saldo pendiente (ErrOverpayment).
type AddPaymentUseCase struct {
	txRunner SaleTxRunner
	events   EventPublisher
}

// NewAddPaymentUseCase construye el caso de uso.
func NewAddPaymentUseCase(txRunner SaleTxRunner, events EventPublisher) *AddPaymentUseCase {
	return &AddPaymentUseCase{txRunner: txRunner, events: events}
}

// AddPayment bloquea la cabecera, valida saldo y estado, agrega el pago e
// incrementa paid_amount; el estado pasa a PAID cuando paid >= total.
func (uc *AddPaymentUseCase) AddPayment(ctx context.Context, saleID string, in dto.AddPaymentRequest, userID string) (*dto.PaymentResponse, error) {
	if saleID == "" || !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !validPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var payment *entity.Payment
	err := uc.txRunner.RunPayment(ctx, func(saleRepo repository.SaleRepository) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCancelled {
			return domain.ErrSaleCancelled
		}
		outstanding := sale.Outstanding()
		if in.Amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w: abono %s, saldo %s", domain.ErrOverpayment, in.Amount, outstanding)
		}
		payment = &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			Amount:    in.Amount,
			Method:    in.Method,
			Reference: in.Reference,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := saleRepo.CreatePayment(payment); err != nil {
			return err
		}
		newPaid := sale.PaidAmount.Add(in.Amount)
		status := sale.Status
		if newPaid.GreaterThanOrEqual(sale.Total) {
			status = entity.SaleStatusPaid
		}
		return saleRepo.UpdatePaid(sale.ID, newPaid, status)
	})
	if err != nil {
		return nil, err
	}

	if uc.events != nil {
		uc.events.Publish(ctx, EventPaymentRecorded, payment)
	}
	return &dto.PaymentResponse{
		ID:        payment.ID,
		SaleID:    payment.SaleID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		Reference: payment.Reference,
		CreatedAt: payment.CreatedAt,
	}, nil
}
