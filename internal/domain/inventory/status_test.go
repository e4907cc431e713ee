package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/taller-pro/internal/domain/inventory"
)

// La clasificación depende solo de (qty, min): critical en cero o negativo,
// low dentro del punto de reorden, normal por encima.
func TestStockStatus_Clasificacion(t *testing.T) {
	cases := []struct {
		name string
		qty  int64
		min  int64
		want string
	}{
		{"cero es critical", 0, 5, inventory.StatusCritical},
		{"negativo es critical", -1, 5, inventory.StatusCritical},
		{"igual al minimo es low", 5, 5, inventory.StatusLow},
		{"debajo del minimo es low", 3, 5, inventory.StatusLow},
		{"arriba del minimo es normal", 6, 5, inventory.StatusNormal},
		{"minimo cero con existencias es normal", 1, 0, inventory.StatusNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.StockStatus(tc.qty, tc.min))
		})
	}
}
