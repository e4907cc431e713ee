package sales

import (
	"context"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// ReceiptUseCase genera la nota de venta imprimible.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	branchRepo   repository.BranchRepository
	customerRepo repository.CustomerRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	branchRepo repository.BranchRepository,
	customerRepo repository.CustomerRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		branchRepo:   branchRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// GenerateReceipt PDF de la venta con líneas, totales y folio.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	branch, err := uc.branchRepo.GetByID(sale.BranchID)
	if err != nil {
		return nil, err
	}
	var customer *entity.Customer
	if sale.CustomerID != "" {
		customer, _ = uc.customerRepo.GetByID(sale.CustomerID)
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, lines, branch, customer)
}
