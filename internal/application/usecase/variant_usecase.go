package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// VariantUseCase CRUD de datos maestros del catálogo. Las cantidades nunca
// se tocan aquí: todo cambio de existencias pasa por el libro de movimientos.
type VariantUseCase struct {
	repo repository.VariantRepository
}

// NewVariantUseCase construye el caso de uso.
func NewVariantUseCase(repo repository.VariantRepository) *VariantUseCase {
	return &VariantUseCase{repo: repo}
}

// Create da de alta una variante.
func (uc *VariantUseCase) Create(in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	variant := &entity.Variant{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Model:       in.Model,
		Category:    in.Category,
		Price:       in.Price,
		Cost:        in.Cost,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// Update edita datos maestros (no SKU, no existencias).
func (uc *VariantUseCase) Update(id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	variant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	variant.Name = in.Name
	variant.Description = in.Description
	variant.Brand = in.Brand
	variant.Model = in.Model
	variant.Category = in.Category
	variant.Price = in.Price
	variant.Cost = in.Cost
	variant.UpdatedAt = time.Now()
	if err := uc.repo.Update(variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// Delete borrado lógico: la variante queda inactiva pero su historial de
// movimientos permanece íntegro.
func (uc *VariantUseCase) Delete(id string) error {
	variant, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if variant == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// GetByID obtiene una variante.
func (uc *VariantUseCase) GetByID(id string) (*dto.VariantResponse, error) {
	variant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	return toVariantResponse(variant), nil
}

// List listado paginado del catálogo.
func (uc *VariantUseCase) List(page dto.PageRequest) ([]dto.VariantResponse, error) {
	page.DefaultPage()
	variants, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, *toVariantResponse(v))
	}
	return out, nil
}

func toVariantResponse(v *entity.Variant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Name:        v.Name,
		Description: v.Description,
		Brand:       v.Brand,
		Model:       v.Model,
		Category:    v.Category,
		Price:       v.Price,
		Cost:        v.Cost,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
	}
}
