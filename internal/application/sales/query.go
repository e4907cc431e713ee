package sales

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// QueryUseCase lecturas de ventas.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// GetSale venta con líneas y pagos.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.saleRepo.GetPayments(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines, payments), nil
}

// ListSales listado paginado con filtros.
func (uc *QueryUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	sales, total, err := uc.saleRepo.Search(filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, s := range sales {
		resp.Items = append(resp.Items, *toSaleResponse(s, nil, nil))
	}
	return resp, nil
}
