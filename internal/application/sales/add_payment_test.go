package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// newPendingSale crea una venta PENDING vía el coordinador: total 232
// (2 x 100 + IVA), abonado lo indicado.
func newPendingSale(t *testing.T, fx *saleFixture, paid string) string {
	t.Helper()
	req := dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{variantLine(2)},
	}
	if paid != "0" {
		req.Payment = cashPayment(paid)
	}
	resp, err := fx.createUC.CreateSale(context.Background(), req, saleUser, "", "")
	require.NoError(t, err)
	return resp.ID
}

// Un abono parcial suma al pagado sin cambiar el estado.
func TestAddPayment_AbonoParcial(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "100")

	payment, err := fx.paymentUC.AddPayment(context.Background(), saleID, dto.AddPaymentRequest{
		Amount: dec("50"),
		Method: entity.PaymentMethodTarjeta,
	}, saleUser)
	require.NoError(t, err)

	assert.True(t, payment.Amount.Equal(dec("50")))
	sale, _ := fx.saleRepo.GetByID(saleID)
	assert.True(t, sale.PaidAmount.Equal(dec("150")))
	assert.Equal(t, entity.SaleStatusPending, sale.Status, "150 < 232")
}

// Al cubrir el total el estado pasa a PAID.
func TestAddPayment_LiquidaLaVenta(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "100")

	_, err := fx.paymentUC.AddPayment(context.Background(), saleID, dto.AddPaymentRequest{
		Amount: dec("132"),
		Method: entity.PaymentMethodTransferencia,
	}, saleUser)
	require.NoError(t, err)

	sale, _ := fx.saleRepo.GetByID(saleID)
	assert.Equal(t, entity.SaleStatusPaid, sale.Status)
	assert.True(t, sale.Outstanding().IsZero())
}

// Política estricta: un abono mayor al saldo se rechaza completo, no se
// recorta ni deja rastro.
func TestAddPayment_SobrepagoRechazado(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "200")
	paymentsBefore := len(fx.saleRepo.payments)

	_, err := fx.paymentUC.AddPayment(context.Background(), saleID, dto.AddPaymentRequest{
		Amount: dec("50"), // saldo 32
		Method: entity.PaymentMethodEfectivo,
	}, saleUser)

	assert.ErrorIs(t, err, domain.ErrOverpayment)
	sale, _ := fx.saleRepo.GetByID(saleID)
	assert.True(t, sale.PaidAmount.Equal(dec("200")), "el pagado no cambia")
	assert.Len(t, fx.saleRepo.payments, paymentsBefore, "el abono rechazado no se persiste")
}

// Un abono exacto al saldo sí procede.
func TestAddPayment_AbonoExactoAlSaldo(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "200")

	_, err := fx.paymentUC.AddPayment(context.Background(), saleID, dto.AddPaymentRequest{
		Amount: dec("32"),
		Method: entity.PaymentMethodEfectivo,
	}, saleUser)
	require.NoError(t, err)

	sale, _ := fx.saleRepo.GetByID(saleID)
	assert.Equal(t, entity.SaleStatusPaid, sale.Status)
}

// Una venta cancelada no admite abonos.
func TestAddPayment_VentaCancelada(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "0")
	fx.saleRepo.sales[saleID].Status = entity.SaleStatusCancelled

	_, err := fx.paymentUC.AddPayment(context.Background(), saleID, dto.AddPaymentRequest{
		Amount: dec("10"),
		Method: entity.PaymentMethodEfectivo,
	}, saleUser)

	assert.ErrorIs(t, err, domain.ErrSaleCancelled)
}

func TestAddPayment_EntradasInvalidas(t *testing.T) {
	fx := newSaleFixture()
	saleID := newPendingSale(t, fx, "0")
	ctx := context.Background()

	_, err := fx.paymentUC.AddPayment(ctx, saleID, dto.AddPaymentRequest{
		Amount: dec("0"), Method: entity.PaymentMethodEfectivo,
	}, saleUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = fx.paymentUC.AddPayment(ctx, saleID, dto.AddPaymentRequest{
		Amount: dec("-5"), Method: entity.PaymentMethodEfectivo,
	}, saleUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto negativo")

	_, err = fx.paymentUC.AddPayment(ctx, saleID, dto.AddPaymentRequest{
		Amount: dec("10"), Method: "VALES",
	}, saleUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método fuera de catálogo")
}

func TestAddPayment_VentaInexistente(t *testing.T) {
	fx := newSaleFixture()
	_, err := fx.paymentUC.AddPayment(context.Background(), "no-existe", dto.AddPaymentRequest{
		Amount: dec("10"), Method: entity.PaymentMethodEfectivo,
	}, saleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
