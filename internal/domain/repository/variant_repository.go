package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// VariantRepository puerto de persistencia para el catálogo de variantes.
// Deactivate es borrado lógico: los movimientos históricos referencian la
// variante para siempre.
type VariantRepository interface {
	Create(variant *entity.Variant) error
	Update(variant *entity.Variant) error
	Deactivate(id string) error
	GetByID(id string) (*entity.Variant, error)
	GetBySKU(sku string) (*entity.Variant, error)
	List(limit, offset int) ([]*entity.Variant, error)
}
