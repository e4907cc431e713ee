package sales_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/folio"
	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/application/reservation"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (compartidos con add_payment_test.go)
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeSaleRepo struct {
	sales    map[string]*entity.Sale
	lines    []*entity.SaleLine
	payments []*entity.Payment
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[string]*entity.Sale{}}
}

func (f *fakeSaleRepo) Create(s *entity.Sale) error {
	cp := *s
	f.sales[s.ID] = &cp
	return nil
}

func (f *fakeSaleRepo) CreateLine(l *entity.SaleLine) error {
	cp := *l
	f.lines = append(f.lines, &cp)
	return nil
}

func (f *fakeSaleRepo) CreatePayment(p *entity.Payment) error {
	cp := *p
	f.payments = append(f.payments, &cp)
	return nil
}

func (f *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	if s, ok := f.sales[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return f.GetByID(id) }

func (f *fakeSaleRepo) UpdatePaid(id string, paidAmount decimal.Decimal, status string) error {
	s, ok := f.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.PaidAmount = paidAmount
	s.Status = status
	return nil
}

func (f *fakeSaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	for _, l := range f.lines {
		if l.SaleID == saleID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) GetPayments(saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) Search(repository.SaleFilter) ([]*entity.Sale, int, error) {
	return nil, 0, nil
}

type fakeStockRepo struct {
	items map[string]*entity.StockItem
}

func (f *fakeStockRepo) key(b, v string) string { return b + "|" + v }

func (f *fakeStockRepo) Get(branchID, variantID string) (*entity.StockItem, error) {
	if it, ok := f.items[f.key(branchID, variantID)]; ok {
		cp := *it
		return &cp, nil
	}
	return &entity.StockItem{BranchID: branchID, VariantID: variantID}, nil
}

func (f *fakeStockRepo) GetForUpdate(branchID, variantID string) (*entity.StockItem, error) {
	return f.Get(branchID, variantID)
}

func (f *fakeStockRepo) Upsert(item *entity.StockItem) error {
	cp := *item
	f.items[f.key(item.BranchID, item.VariantID)] = &cp
	return nil
}

func (f *fakeStockRepo) Search(repository.StockFilter) ([]*repository.StockItemWithVariant, int, error) {
	return nil, 0, nil
}

type fakeMovementRepo struct {
	movements []*entity.Movement
}

func (f *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }

func (f *fakeMovementRepo) ListByKey(string, string, repository.MovementFilter) ([]*entity.Movement, error) {
	return f.movements, nil
}

func (f *fakeMovementRepo) SumByKey(string, string) (int64, error) { return 0, nil }

type fakePartRepo struct {
	parts map[string]*entity.TicketPart
}

func (f *fakePartRepo) Create(p *entity.TicketPart) error {
	cp := *p
	f.parts[p.ID] = &cp
	return nil
}

func (f *fakePartRepo) GetByID(id string) (*entity.TicketPart, error) {
	if p, ok := f.parts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePartRepo) GetForUpdate(id string) (*entity.TicketPart, error) { return f.GetByID(id) }

func (f *fakePartRepo) UpdateState(id, state string) error {
	p, ok := f.parts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.State = state
	return nil
}

func (f *fakePartRepo) ListByTicket(string) ([]*entity.TicketPart, error) { return nil, nil }

type fakeTicketRepo struct {
	tickets map[string]*entity.Ticket
}

func (f *fakeTicketRepo) GetByID(id string) (*entity.Ticket, error) {
	if t, ok := f.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeTicketRepo) GetForUpdate(id string) (*entity.Ticket, error) { return f.GetByID(id) }

func (f *fakeTicketRepo) MarkBilled(id string) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Billed = true
	return nil
}

type fakeVariantRepo struct {
	variants map[string]*entity.Variant
}

func (f *fakeVariantRepo) Create(*entity.Variant) error    { return nil }
func (f *fakeVariantRepo) Update(*entity.Variant) error    { return nil }
func (f *fakeVariantRepo) Deactivate(string) error         { return nil }
func (f *fakeVariantRepo) GetByID(id string) (*entity.Variant, error) {
	return f.variants[id], nil
}
func (f *fakeVariantRepo) GetBySKU(string) (*entity.Variant, error) { return nil, nil }
func (f *fakeVariantRepo) List(int, int) ([]*entity.Variant, error) { return nil, nil }

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) { return f.branches[id], nil }
func (f *fakeBranchRepo) List() ([]*entity.Branch, error)           { return nil, nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeFolioRepo struct {
	seqs map[string]int64
}

func (f *fakeFolioRepo) NextSeq(prefix, branchID, period string) (int64, error) {
	k := prefix + "|" + branchID + "|" + period
	f.seqs[k]++
	return f.seqs[k], nil
}

// fakeSaleTxRunner ejecuta fn contra los fakes; si fn falla restaura el
// estado previo (simula el rollback de la unidad atómica).
type fakeSaleTxRunner struct {
	saleRepo   *fakeSaleRepo
	movRepo    *fakeMovementRepo
	stockRepo  *fakeStockRepo
	partRepo   *fakePartRepo
	ticketRepo *fakeTicketRepo
}

func (f *fakeSaleTxRunner) RunSale(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	partRepo repository.TicketPartRepository,
	ticketRepo repository.TicketRepository,
) error) error {
	salesSnap := map[string]*entity.Sale{}
	for k, v := range f.saleRepo.sales {
		cp := *v
		salesSnap[k] = &cp
	}
	stockSnap := map[string]*entity.StockItem{}
	for k, v := range f.stockRepo.items {
		cp := *v
		stockSnap[k] = &cp
	}
	partsSnap := map[string]*entity.TicketPart{}
	for k, v := range f.partRepo.parts {
		cp := *v
		partsSnap[k] = &cp
	}
	ticketsSnap := map[string]*entity.Ticket{}
	for k, v := range f.ticketRepo.tickets {
		cp := *v
		ticketsSnap[k] = &cp
	}
	linesLen, paymentsLen, movLen := len(f.saleRepo.lines), len(f.saleRepo.payments), len(f.movRepo.movements)

	if err := fn(f.saleRepo, f.movRepo, f.stockRepo, f.partRepo, f.ticketRepo); err != nil {
		f.saleRepo.sales = salesSnap
		f.saleRepo.lines = f.saleRepo.lines[:linesLen]
		f.saleRepo.payments = f.saleRepo.payments[:paymentsLen]
		f.stockRepo.items = stockSnap
		f.partRepo.parts = partsSnap
		f.ticketRepo.tickets = ticketsSnap
		f.movRepo.movements = f.movRepo.movements[:movLen]
		return err
	}
	return nil
}

func (f *fakeSaleTxRunner) RunPayment(_ context.Context, fn func(
	saleRepo repository.SaleRepository,
) error) error {
	snap := map[string]*entity.Sale{}
	for k, v := range f.saleRepo.sales {
		cp := *v
		snap[k] = &cp
	}
	paymentsLen := len(f.saleRepo.payments)
	if err := fn(f.saleRepo); err != nil {
		f.saleRepo.sales = snap
		f.saleRepo.payments = f.saleRepo.payments[:paymentsLen]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	saleBranch   = "branch-1"
	saleVariant  = "variant-1"
	saleCustomer = "customer-1"
	saleTicket   = "ticket-1"
	saleUser     = "user-1"
)

type saleFixture struct {
	createUC  *sales.CreateSaleUseCase
	paymentUC *sales.AddPaymentUseCase
	saleRepo  *fakeSaleRepo
	stock     *fakeStockRepo
	mov       *fakeMovementRepo
	parts     *fakePartRepo
	tickets   *fakeTicketRepo
}

func newSaleFixture() *saleFixture {
	saleRepo := newFakeSaleRepo()
	stock := &fakeStockRepo{items: map[string]*entity.StockItem{}}
	stock.items[stock.key(saleBranch, saleVariant)] = &entity.StockItem{
		BranchID: saleBranch, VariantID: saleVariant, Qty: 10,
	}
	mov := &fakeMovementRepo{}
	parts := &fakePartRepo{parts: map[string]*entity.TicketPart{}}
	tickets := &fakeTicketRepo{tickets: map[string]*entity.Ticket{
		saleTicket: {
			ID:             saleTicket,
			Folio:          "LAB-SUC01-202608-0001",
			BranchID:       saleBranch,
			CustomerID:     saleCustomer,
			Status:         entity.TicketStatusReparado,
			EstimatedCost:  dec("400"),
			FinalCost:      dec("500"),
			AdvancePayment: dec("100"),
		},
	}}
	variants := &fakeVariantRepo{variants: map[string]*entity.Variant{
		saleVariant: {ID: saleVariant, SKU: "PAN-IP13-NEG", Name: "Pantalla iPhone 13", Price: dec("150"), Active: true},
	}}
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		saleBranch: {ID: saleBranch, Code: "SUC01", Active: true},
	}}
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		saleCustomer: {ID: saleCustomer, Name: "Juan Pérez"},
	}}
	txRunner := &fakeSaleTxRunner{
		saleRepo: saleRepo, movRepo: mov, stockRepo: stock, partRepo: parts, ticketRepo: tickets,
	}
	folioUC := folio.New(&fakeFolioRepo{seqs: map[string]int64{}}, branches, 3)
	inventoryUC := inventory.NewRegisterMovementUseCase(nil, variants, branches, nil)
	reservationUC := reservation.New(nil, parts, nil)
	createUC := sales.NewCreateSaleUseCase(txRunner, variants, branches, customers, tickets,
		folioUC, inventoryUC, reservationUC, nil)
	paymentUC := sales.NewAddPaymentUseCase(txRunner, nil)
	return &saleFixture{
		createUC: createUC, paymentUC: paymentUC,
		saleRepo: saleRepo, stock: stock, mov: mov, parts: parts, tickets: tickets,
	}
}

func variantLine(qty int64) dto.SaleLineRequest {
	return dto.SaleLineRequest{VariantID: saleVariant, Qty: qty, UnitPrice: dec("100")}
}

func cashPayment(amount string) dto.SalePaymentRequest {
	return dto.SalePaymentRequest{Amount: dec(amount), Method: entity.PaymentMethodEfectivo}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

var folioVenta = regexp.MustCompile(`^VTA-SUC01-\d{6}-\d{4}$`)

// Venta de mostrador simple: totales del servidor, folio emitido, VTA en el
// libro y descuento de existencias.
func TestCreateSale_VentaDeVariantes(t *testing.T) {
	fx := newSaleFixture()

	resp, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID:   saleBranch,
		CustomerID: saleCustomer,
		Lines:      []dto.SaleLineRequest{variantLine(2)},
		Payment:    cashPayment("100"),
	}, saleUser, "10.0.0.1", "tests")
	require.NoError(t, err)

	assert.Regexp(t, folioVenta, resp.Folio)
	assert.True(t, resp.Subtotal.Equal(dec("200")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(dec("32")), "IVA 16%% de 200")
	assert.True(t, resp.Total.Equal(dec("232")))
	assert.Equal(t, entity.SaleStatusPending, resp.Status, "pago parcial deja PENDING")

	it, _ := fx.stock.Get(saleBranch, saleVariant)
	assert.Equal(t, int64(8), it.Qty, "VTA descuenta existencias")
	require.Len(t, fx.mov.movements, 1)
	assert.Equal(t, entity.MovementTypeVTA, fx.mov.movements[0].Type)
	assert.Equal(t, resp.Folio, fx.mov.movements[0].Folio, "el movimiento referencia el folio de la venta")
	require.Len(t, fx.saleRepo.payments, 1)
	assert.True(t, fx.saleRepo.payments[0].Amount.Equal(dec("100")))
}

func TestCreateSale_SinLineas(t *testing.T) {
	fx := newSaleFixture()
	_, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
	}, saleUser, "", "")
	assert.ErrorIs(t, err, domain.ErrEmptySale)
}

// El precio de una línea de ticket se relee del ticket (costo final sobre
// estimado), la cantidad queda fija en 1 y el anticipo se descuenta del
// subtotal. El ticket queda marcado como facturado.
func TestCreateSale_LineaDeTicket(t *testing.T) {
	fx := newSaleFixture()

	resp, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines: []dto.SaleLineRequest{
			// El cliente manda precio y cantidad maliciosos; se ignoran.
			{TicketID: saleTicket, Qty: 99, UnitPrice: dec("1")},
		},
		Payment: cashPayment("464"),
	}, saleUser, "", "")
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	line := resp.Lines[0]
	assert.Equal(t, entity.LineKindTicket, line.Kind)
	assert.Equal(t, int64(1), line.Qty, "cantidad forzada a 1")
	assert.True(t, line.UnitPrice.Equal(dec("500")), "costo final, no el precio del cliente")

	assert.True(t, resp.Subtotal.Equal(dec("400")), "500 - anticipo 100")
	assert.True(t, resp.Total.Equal(dec("464")), "400 + IVA 64")
	assert.Equal(t, entity.SaleStatusPaid, resp.Status, "pago completo")
	assert.Equal(t, saleTicket, resp.TicketID)

	tk, _ := fx.tickets.GetByID(saleTicket)
	assert.True(t, tk.Billed)
}

// Un ticket ya facturado no se vuelve a facturar.
func TestCreateSale_TicketYaFacturado(t *testing.T) {
	fx := newSaleFixture()
	fx.tickets.tickets[saleTicket].Billed = true

	_, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{{TicketID: saleTicket}},
	}, saleUser, "", "")

	assert.ErrorIs(t, err, domain.ErrTicketAlreadyBilled)
	assert.Empty(t, fx.saleRepo.sales)
}

func TestCreateSale_LineaAmbigua(t *testing.T) {
	fx := newSaleFixture()
	ctx := context.Background()

	_, err := fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{{VariantID: saleVariant, TicketID: saleTicket, Qty: 1}},
	}, saleUser, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "variante y ticket a la vez")

	_, err = fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{{Qty: 1}},
	}, saleUser, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ni variante ni ticket")
}

// Si una línea no alcanza existencias, la venta completa se revierte: las
// líneas anteriores no dejan rastro en stock ni en el libro.
func TestCreateSale_StockInsuficienteRevierteTodo(t *testing.T) {
	fx := newSaleFixture()

	_, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines: []dto.SaleLineRequest{
			variantLine(5),
			variantLine(20), // 5 + 20 > 10 en existencia
		},
	}, saleUser, "", "")

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	it, _ := fx.stock.Get(saleBranch, saleVariant)
	assert.Equal(t, int64(10), it.Qty, "la primera línea también se revierte")
	assert.Empty(t, fx.mov.movements)
	assert.Empty(t, fx.saleRepo.sales)
	assert.Empty(t, fx.saleRepo.lines)
}

// Línea respaldada por una reserva: consume la reserva (qty y reserved bajan
// juntos) en lugar de descontar del disponible, y el EGR referencia el folio
// de la venta.
func TestCreateSale_LineaConReserva(t *testing.T) {
	fx := newSaleFixture()
	it, _ := fx.stock.Get(saleBranch, saleVariant)
	it.Reserved = 3
	require.NoError(t, fx.stock.Upsert(it))
	fx.parts.parts["part-1"] = &entity.TicketPart{
		ID: "part-1", TicketID: saleTicket, BranchID: saleBranch,
		VariantID: saleVariant, Qty: 3, State: entity.PartStateReservada,
	}

	resp, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines: []dto.SaleLineRequest{
			{VariantID: saleVariant, TicketPartID: "part-1", Qty: 3, UnitPrice: dec("150")},
		},
	}, saleUser, "", "")
	require.NoError(t, err)

	it, _ = fx.stock.Get(saleBranch, saleVariant)
	assert.Equal(t, int64(7), it.Qty)
	assert.Zero(t, it.Reserved)

	part, _ := fx.parts.GetByID("part-1")
	assert.Equal(t, entity.PartStateConsumida, part.State)

	require.Len(t, fx.mov.movements, 1)
	assert.Equal(t, entity.MovementTypeEGR, fx.mov.movements[0].Type)
	assert.Equal(t, resp.Folio, fx.mov.movements[0].Folio)
}

// La reserva referenciada debe corresponder a la línea (misma variante y
// cantidad); si no, la venta aborta.
func TestCreateSale_ReservaNoCorresponde(t *testing.T) {
	fx := newSaleFixture()
	it, _ := fx.stock.Get(saleBranch, saleVariant)
	it.Reserved = 2
	require.NoError(t, fx.stock.Upsert(it))
	fx.parts.parts["part-1"] = &entity.TicketPart{
		ID: "part-1", TicketID: saleTicket, BranchID: saleBranch,
		VariantID: saleVariant, Qty: 2, State: entity.PartStateReservada,
	}

	_, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines: []dto.SaleLineRequest{
			{VariantID: saleVariant, TicketPartID: "part-1", Qty: 5, UnitPrice: dec("150")},
		},
	}, saleUser, "", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	part, _ := fx.parts.GetByID("part-1")
	assert.Equal(t, entity.PartStateReservada, part.State, "el consumo se revierte")
}

// Una venta no puede consumir una reserva apartada en otra sucursal: el EGR y
// el descuento de existencias caerían en la sucursal ajena.
func TestCreateSale_ReservaDeOtraSucursal(t *testing.T) {
	fx := newSaleFixture()
	const otherBranch = "branch-2"
	fx.stock.items[fx.stock.key(otherBranch, saleVariant)] = &entity.StockItem{
		BranchID: otherBranch, VariantID: saleVariant, Qty: 5, Reserved: 2,
	}
	fx.parts.parts["part-ajena"] = &entity.TicketPart{
		ID: "part-ajena", TicketID: saleTicket, BranchID: otherBranch,
		VariantID: saleVariant, Qty: 2, State: entity.PartStateReservada,
	}

	_, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines: []dto.SaleLineRequest{
			{VariantID: saleVariant, TicketPartID: "part-ajena", Qty: 2, UnitPrice: dec("150")},
		},
	}, saleUser, "", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	foreign, _ := fx.stock.Get(otherBranch, saleVariant)
	assert.Equal(t, int64(5), foreign.Qty, "la sucursal ajena queda intacta")
	assert.Equal(t, int64(2), foreign.Reserved)
	part, _ := fx.parts.GetByID("part-ajena")
	assert.Equal(t, entity.PartStateReservada, part.State)
	assert.Empty(t, fx.mov.movements)
	assert.Empty(t, fx.saleRepo.sales)
}

// Descuento global porcentual y plano pasan por el mismo cálculo del servidor.
func TestCreateSale_DescuentoGlobal(t *testing.T) {
	fx := newSaleFixture()

	resp, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID:        saleBranch,
		Lines:           []dto.SaleLineRequest{variantLine(2)}, // subtotal 200
		Discount:        dec("10"),
		DiscountPercent: true,
	}, saleUser, "", "")
	require.NoError(t, err)

	assert.True(t, resp.DiscountAmount.Equal(dec("20")), "10%% de 200")
	assert.True(t, resp.Total.Equal(dec("208.8")), "180 + IVA 28.8")
	assert.Equal(t, entity.SaleStatusPending, resp.Status)
	assert.Empty(t, fx.saleRepo.payments, "sin pago inicial no hay abono")
}

func TestCreateSale_PagoInvalido(t *testing.T) {
	fx := newSaleFixture()
	ctx := context.Background()

	_, err := fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{variantLine(1)},
		Payment:  dto.SalePaymentRequest{Amount: dec("50"), Method: "CHEQUE"},
	}, saleUser, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método fuera de catálogo")

	_, err = fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{variantLine(1)},
		Payment:  dto.SalePaymentRequest{Amount: dec("-1"), Method: entity.PaymentMethodEfectivo},
	}, saleUser, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto negativo")
}

// Sin precio en la línea se toma el precio de lista de la variante.
func TestCreateSale_PrecioDeLista(t *testing.T) {
	fx := newSaleFixture()

	resp, err := fx.createUC.CreateSale(context.Background(), dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{{VariantID: saleVariant, Qty: 1}},
	}, saleUser, "", "")
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].UnitPrice.Equal(dec("150")), "precio de lista de la variante")
}

// Folios consecutivos por (prefijo, sucursal, periodo) aun entre ventas.
func TestCreateSale_FoliosConsecutivos(t *testing.T) {
	fx := newSaleFixture()
	ctx := context.Background()

	first, err := fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{variantLine(1)},
	}, saleUser, "", "")
	require.NoError(t, err)
	second, err := fx.createUC.CreateSale(ctx, dto.CreateSaleRequest{
		BranchID: saleBranch,
		Lines:    []dto.SaleLineRequest{variantLine(1)},
	}, saleUser, "", "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Folio, second.Folio)
	assert.Regexp(t, regexp.MustCompile(`-0001$`), first.Folio)
	assert.Regexp(t, regexp.MustCompile(`-0002$`), second.Folio)
}
