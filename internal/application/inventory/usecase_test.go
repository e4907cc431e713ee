package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	items map[string]*entity.StockItem
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: map[string]*entity.StockItem{}}
}

func stockKey(branchID, variantID string) string { return branchID + "|" + variantID }

func (f *fakeStockRepo) Get(branchID, variantID string) (*entity.StockItem, error) {
	if it, ok := f.items[stockKey(branchID, variantID)]; ok {
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
	f.items[stockKey(item.BranchID, item.VariantID)] = &cp
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

func (f *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range f.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMovementRepo) ListByKey(branchID, variantID string, _ repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.movements {
		if m.BranchID == branchID && m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) SumByKey(branchID, variantID string) (int64, error) {
	var sum int64
	for _, m := range f.movements {
		if m.BranchID == branchID && m.VariantID == variantID {
			sum += m.Qty
		}
	}
	return sum, nil
}

// fakeTxRunner ejecuta la función directamente contra los fakes. El mutex
// serializa transacciones como lo hace el SELECT FOR UPDATE sobre la fila de
// existencias; si fn falla, se restaura el estado previo (rollback).
type fakeTxRunner struct {
	mu    sync.Mutex
	stock *fakeStockRepo
	mov   *fakeMovementRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := map[string]*entity.StockItem{}
	for k, v := range f.stock.items {
		cp := *v
		snapshot[k] = &cp
	}
	movLen := len(f.mov.movements)
	if err := fn(f.mov, f.stock); err != nil {
		f.stock.items = snapshot
		f.mov.movements = f.mov.movements[:movLen]
		return err
	}
	return nil
}

type fakeVariantRepo struct {
	variants map[string]*entity.Variant
}

func (f *fakeVariantRepo) Create(v *entity.Variant) error { f.variants[v.ID] = v; return nil }
func (f *fakeVariantRepo) Update(v *entity.Variant) error { f.variants[v.ID] = v; return nil }
func (f *fakeVariantRepo) Deactivate(id string) error     { return nil }
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

// capturedEvents acumula lo publicado para asertar. Con mutex: los eventos se
// publican fuera de la transacción y pueden llegar desde varias goroutines.
type capturedEvents struct {
	mu    sync.Mutex
	types []string
}

func (c *capturedEvents) Publish(_ context.Context, eventType string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, eventType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchA   = "branch-a"
	branchB   = "branch-b"
	variantX  = "variant-x"
	testUser  = "user-1"
	testAgent = "tests"
)

type fixture struct {
	uc     *inventory.RegisterMovementUseCase
	stock  *fakeStockRepo
	mov    *fakeMovementRepo
	events *capturedEvents
}

func newFixture() *fixture {
	stock := newFakeStockRepo()
	mov := &fakeMovementRepo{}
	events := &capturedEvents{}
	variants := &fakeVariantRepo{variants: map[string]*entity.Variant{
		variantX: {ID: variantX, SKU: "PAN-IP13-NEG", Name: "Pantalla iPhone 13 negra", Active: true},
	}}
	branches := &fakeBranchRepo{branches: map[string]*entity.Branch{
		branchA: {ID: branchA, Code: "SUC01", Active: true},
		branchB: {ID: branchB, Code: "SUC02", Active: true},
	}}
	uc := inventory.NewRegisterMovementUseCase(&fakeTxRunner{stock: stock, mov: mov}, variants, branches, events)
	return &fixture{uc: uc, stock: stock, mov: mov, events: events}
}

func (fx *fixture) register(t *testing.T, typ string, qty int64) *entity.Movement {
	t.Helper()
	mov, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BranchID:  branchA,
		VariantID: variantX,
		Type:      typ,
		Qty:       qty,
		UserID:    testUser,
		UserAgent: testAgent,
	})
	require.NoError(t, err)
	return mov
}

func (fx *fixture) qty(t *testing.T) int64 {
	t.Helper()
	it, err := fx.stock.Get(branchA, variantX)
	require.NoError(t, err)
	return it.Qty
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// El primer ING crea la fila de existencias y deja el delta +qty en el libro.
func TestRegisterMovement_IngresoInicial(t *testing.T) {
	fx := newFixture()

	mov := fx.register(t, entity.MovementTypeING, 10)

	assert.Equal(t, int64(10), mov.Qty, "ING registra delta positivo")
	assert.Equal(t, int64(10), fx.qty(t))
	assert.Len(t, fx.mov.movements, 1)
}

// Un egreso mayor a lo existente se rechaza y no deja rastro: ni movimiento
// ni cambio en la cantidad.
func TestRegisterMovement_EgresoInsuficiente(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 5)

	_, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BranchID: branchA, VariantID: variantX,
		Type: entity.MovementTypeEGR, Qty: 8,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), fx.qty(t), "la cantidad no cambia tras el rechazo")
	assert.Len(t, fx.mov.movements, 1, "el libro no registra el movimiento rechazado")
}

// Una salida que dejaría qty por debajo de lo reservado también se rechaza:
// lo apartado para tickets no se puede vender.
func TestRegisterMovement_SalidaRespetaReservado(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 10)
	it, _ := fx.stock.Get(branchA, variantX)
	it.Reserved = 4
	require.NoError(t, fx.stock.Upsert(it))

	_, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BranchID: branchA, VariantID: variantX,
		Type: entity.MovementTypeVTA, Qty: 8,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "8 > disponible 6")

	mov := fx.register(t, entity.MovementTypeVTA, 6)
	assert.Equal(t, int64(-6), mov.Qty)
	assert.Equal(t, int64(4), fx.qty(t), "queda exactamente lo reservado")
}

// AJU trae su propio signo; cero es inválido.
func TestRegisterMovement_AjusteConSigno(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 10)

	fx.register(t, entity.MovementTypeAJU, -3)
	assert.Equal(t, int64(7), fx.qty(t))

	fx.register(t, entity.MovementTypeAJU, 2)
	assert.Equal(t, int64(9), fx.qty(t))

	_, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
		BranchID: branchA, VariantID: variantX,
		Type: entity.MovementTypeAJU, Qty: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Para los tipos con signo implícito la cantidad debe ser positiva.
func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.uc.RegisterMovement(ctx, inventory.MovementInput{
		BranchID: branchA, VariantID: variantX, Type: "XYZ", Qty: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo fuera de catálogo")

	_, err = fx.uc.RegisterMovement(ctx, inventory.MovementInput{
		BranchID: branchA, VariantID: variantX, Type: entity.MovementTypeING, Qty: -5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ING con cantidad negativa")

	_, err = fx.uc.RegisterMovement(ctx, inventory.MovementInput{
		BranchID: branchA, VariantID: "no-existe", Type: entity.MovementTypeING, Qty: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Traspaso: TRF_OUT en origen y TRF_IN en destino dentro de la misma tx.
func TestTransfer_MueveEntreSucursales(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 10)

	err := fx.uc.Transfer(context.Background(), inventory.TransferInput{
		FromBranchID: branchA,
		ToBranchID:   branchB,
		VariantID:    variantX,
		Qty:          4,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), fx.qty(t))
	dest, _ := fx.stock.Get(branchB, variantX)
	assert.Equal(t, int64(4), dest.Qty)
	assert.Len(t, fx.mov.movements, 3, "ING + TRF_OUT + TRF_IN")
	assert.Equal(t, entity.MovementTypeTRFOut, fx.mov.movements[1].Type)
	assert.Equal(t, entity.MovementTypeTRFIn, fx.mov.movements[2].Type)
}

// Si el origen no alcanza, el traspaso completo se revierte: el destino no
// recibe nada y el libro queda intacto.
func TestTransfer_InsuficienteRevierteTodo(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 3)

	err := fx.uc.Transfer(context.Background(), inventory.TransferInput{
		FromBranchID: branchA,
		ToBranchID:   branchB,
		VariantID:    variantX,
		Qty:          5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), fx.qty(t))
	dest, _ := fx.stock.Get(branchB, variantX)
	assert.Zero(t, dest.Qty)
	assert.Len(t, fx.mov.movements, 1)
}

func TestTransfer_MismaSucursalInvalida(t *testing.T) {
	fx := newFixture()
	err := fx.uc.Transfer(context.Background(), inventory.TransferInput{
		FromBranchID: branchA, ToBranchID: branchA, VariantID: variantX, Qty: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La cantidad materializada siempre coincide con el fold del libro: ejecutar
// una mezcla de movimientos y comparar contra SumByKey.
func TestRegisterMovement_LibroReproduceCantidad(t *testing.T) {
	fx := newFixture()

	steps := []struct {
		typ string
		qty int64
	}{
		{entity.MovementTypeING, 20},
		{entity.MovementTypeEGR, 3},
		{entity.MovementTypeAJU, -2},
		{entity.MovementTypeVTA, 5},
		{entity.MovementTypeING, 7},
		{entity.MovementTypeAJU, 1},
	}
	for _, s := range steps {
		fx.register(t, s.typ, s.qty)
	}

	sum, err := fx.mov.SumByKey(branchA, variantX)
	require.NoError(t, err)
	assert.Equal(t, fx.qty(t), sum, "fold del libro == cantidad materializada")
	assert.Equal(t, int64(18), sum)
}

// Dos egresos concurrentes de 6 sobre 10 en existencia: exactamente uno gana
// y el otro se rechaza; el resultado nunca queda negativo.
func TestRegisterMovement_EgresosConcurrentes(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 10)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
				BranchID: branchA, VariantID: variantX,
				Type: entity.MovementTypeEGR, Qty: 6,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failed, ok int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		} else {
			ok++
		}
	}
	assert.Equal(t, 1, ok, "exactamente un egreso procede")
	assert.Equal(t, 1, failed, "el otro se rechaza")
	assert.Equal(t, int64(4), fx.qty(t))

	sum, err := fx.mov.SumByKey(branchA, variantX)
	require.NoError(t, err)
	assert.Equal(t, fx.qty(t), sum)
}

// Dos primeros ingresos concurrentes sobre una llave sin fila de existencias:
// ninguno pisa el delta del otro, el total es la suma y el libro lo reproduce.
func TestRegisterMovement_PrimerosIngresosConcurrentes(t *testing.T) {
	fx := newFixture()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.uc.RegisterMovement(context.Background(), inventory.MovementInput{
				BranchID: branchA, VariantID: variantX,
				Type: entity.MovementTypeING, Qty: 5,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), fx.qty(t), "ningún ingreso se pierde")
	assert.Len(t, fx.mov.movements, 2)
	sum, err := fx.mov.SumByKey(branchA, variantX)
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum)
}

// Tras confirmar se publica el evento del movimiento; si el resultado queda
// en nivel crítico o bajo también se publica la alerta.
func TestRegisterMovement_PublicaEventos(t *testing.T) {
	fx := newFixture()
	fx.register(t, entity.MovementTypeING, 2)
	it, _ := fx.stock.Get(branchA, variantX)
	it.Min = 5
	require.NoError(t, fx.stock.Upsert(it))

	fx.register(t, entity.MovementTypeEGR, 1)

	require.NotEmpty(t, fx.events.types)
	assert.Contains(t, fx.events.types, inventory.EventMovementRecorded)
	assert.Contains(t, fx.events.types, inventory.EventStockLow, "qty 1 <= min 5")
}

func TestMovementSign(t *testing.T) {
	cases := map[string]int64{
		entity.MovementTypeING:    1,
		entity.MovementTypeTRFIn:  1,
		entity.MovementTypeEGR:    -1,
		entity.MovementTypeVTA:    -1,
		entity.MovementTypeTRFOut: -1,
		entity.MovementTypeAJU:    0,
	}
	for typ, want := range cases {
		assert.Equal(t, want, entity.MovementSign(typ), fmt.Sprintf("signo de %s", typ))
	}
}
