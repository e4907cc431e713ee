package inventory

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	domaininv "github.com/tu-usuario/taller-pro/internal/domain/inventory"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// StockQueryUseCase lecturas del libro y de existencias. Siempre consulta
// valores confirmados; el status se deriva en cada lectura.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewStockQueryUseCase construye el caso de uso de consulta.
func NewStockQueryUseCase(stockRepo repository.StockRepository, movRepo repository.MovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// GetStock existencias de una (sucursal, variante). Si no hay fila devuelve
// el item en cero sin crearla.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, branchID, variantID string) (*dto.StockItemResponse, error) {
	item, err := uc.stockRepo.Get(branchID, variantID)
	if err != nil {
		return nil, err
	}
	return &dto.StockItemResponse{
		BranchID:  item.BranchID,
		VariantID: item.VariantID,
		Qty:       item.Qty,
		Min:       item.Min,
		Max:       item.Max,
		Reserved:  item.Reserved,
		Available: item.Available(),
		Status:    domaininv.StockStatus(item.Qty, item.Min),
	}, nil
}

// SearchStock listado paginado con filtros de catálogo (marca, modelo,
// categoría, texto libre) y por status derivado.
func (uc *StockQueryUseCase) SearchStock(ctx context.Context, filter repository.StockFilter) (*dto.StockListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	items, total, err := uc.stockRepo.Search(filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockListResponse{
		Items: make([]dto.StockItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.StockItemResponse{
			BranchID:  it.BranchID,
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Name:      it.Name,
			Brand:     it.Brand,
			Model:     it.Model,
			Category:  it.Category,
			Qty:       it.Qty,
			Min:       it.Min,
			Max:       it.Max,
			Reserved:  it.Reserved,
			Available: it.Available(),
			Status:    domaininv.StockStatus(it.Qty, it.Min),
		})
	}
	return resp, nil
}

// ListMovements historial de una llave, orden created_at ascendente. La misma
// consulta con los mismos filtros repite el mismo resultado salvo escrituras
// nuevas.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, branchID, variantID string, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	movs, err := uc.movRepo.ListByKey(branchID, variantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			BranchID:  m.BranchID,
			VariantID: m.VariantID,
			Type:      m.Type,
			Qty:       m.Qty,
			Reason:    m.Reason,
			Folio:     m.Folio,
			TicketID:  m.TicketID,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
