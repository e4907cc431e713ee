package repository

import (
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// StockFilter filtros para el listado de existencias. Los campos de texto se
// comparan contra los datos maestros de la variante.
type StockFilter struct {
	BranchID string
	Brand    string
	Model    string
	Category string
	Status   string // critical | low | normal (se filtra sobre el derivado)
	Text     string // búsqueda libre en sku/nombre, sin acentos
	Limit    int
	Offset   int
}

// StockItemWithVariant fila de listado: existencias + datos maestros.
type StockItemWithVariant struct {
	entity.StockItem
	SKU      string
	Name     string
	Brand    string
	Model    string
	Category string
}

// StockRepository puerto para consultar/actualizar existencias por sucursal+variante.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(branchID, variantID string) (*entity.StockItem, error)
	Upsert(item *entity.StockItem) error
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// mutaciones concurrentes sobre la misma llave.
	GetForUpdate(branchID, variantID string) (*entity.StockItem, error)
	// Search listado paginado con datos de variante; devuelve total para paginación.
	Search(filter StockFilter) ([]*StockItemWithVariant, int, error)
}
