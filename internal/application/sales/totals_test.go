package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pro/internal/domain"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Subtotal 200 con descuento plano de 20: base 180, IVA 28.80, total 208.80.
func TestComputeTotals_DescuentoPlano(t *testing.T) {
	got, err := ComputeTotals(d("200"), d("20"), false)
	require.NoError(t, err)

	assert.True(t, got.Subtotal.Equal(d("200")), "subtotal: %s", got.Subtotal)
	assert.True(t, got.DiscountAmount.Equal(d("20")), "descuento: %s", got.DiscountAmount)
	assert.True(t, got.Tax.Equal(d("28.8")), "iva: %s", got.Tax)
	assert.True(t, got.Total.Equal(d("208.8")), "total: %s", got.Total)
}

// Descuento porcentual del 10% sobre 200: base 180, mismos totales que el plano de 20.
func TestComputeTotals_DescuentoPorcentual(t *testing.T) {
	got, err := ComputeTotals(d("200"), d("10"), true)
	require.NoError(t, err)

	assert.True(t, got.DiscountAmount.Equal(d("20")), "descuento: %s", got.DiscountAmount)
	assert.True(t, got.Tax.Equal(d("28.8")), "iva: %s", got.Tax)
	assert.True(t, got.Total.Equal(d("208.8")), "total: %s", got.Total)
}

// Sin descuento: IVA directo sobre el subtotal.
func TestComputeTotals_SinDescuento(t *testing.T) {
	got, err := ComputeTotals(d("100"), decimal.Zero, false)
	require.NoError(t, err)

	assert.True(t, got.Tax.Equal(d("16")), "iva: %s", got.Tax)
	assert.True(t, got.Total.Equal(d("116")), "total: %s", got.Total)
}

// El descuento plano se recorta al subtotal: nunca deja base negativa.
func TestComputeTotals_PlanoRecortadoAlSubtotal(t *testing.T) {
	got, err := ComputeTotals(d("50"), d("80"), false)
	require.NoError(t, err)

	assert.True(t, got.DiscountAmount.Equal(d("50")), "descuento recortado: %s", got.DiscountAmount)
	assert.True(t, got.Tax.IsZero(), "iva sobre base cero: %s", got.Tax)
	assert.True(t, got.Total.IsZero(), "total: %s", got.Total)
}

// Porcentaje 100: todo el subtotal descontado, total cero.
func TestComputeTotals_PorcentajeCien(t *testing.T) {
	got, err := ComputeTotals(d("200"), d("100"), true)
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero(), "total: %s", got.Total)
}

// Fuera de rango: porcentaje negativo o > 100, plano negativo.
func TestComputeTotals_DescuentosInvalidos(t *testing.T) {
	_, err := ComputeTotals(d("200"), d("-1"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

	_, err = ComputeTotals(d("200"), d("100.01"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

	_, err = ComputeTotals(d("200"), d("-5"), false)
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
}
