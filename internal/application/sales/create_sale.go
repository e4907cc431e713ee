package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/folio"
	"github.com/tu-usuario/taller-pro/internal/application/inventory"
	"github.com/tu-usuario/taller-pro/internal/application/reservation"
	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

// CreateSaleUseCase coordina la creación de una venta multilínea: valida
// líneas contra catálogo y tickets, calcula totales, genera folio y confirma
// cabecera + líneas + movimientos/consumos + primer pago en una sola
// transacción. Cualquier fallo aborta la unidad completa; un folio ya emitido
// queda abandonado (hueco aceptable, duplicado jamás).
type CreateSaleUseCase struct {
	txRunner      SaleTxRunner
	variantRepo   repository.VariantRepository
	branchRepo    repository.BranchRepository
	customerRepo  repository.CustomerRepository
	ticketRepo    repository.TicketRepository
	folioUC       *folio.UseCase
	inventoryUC   *inventory.RegisterMovementUseCase
	reservationUC *reservation.UseCase
	events        EventPublisher
}

// NewCreateSaleUseCase construye el coordinador.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	variantRepo repository.VariantRepository,
	branchRepo repository.BranchRepository,
	customerRepo repository.CustomerRepository,
	ticketRepo repository.TicketRepository,
	folioUC *folio.UseCase,
	inventoryUC *inventory.RegisterMovementUseCase,
	reservationUC *reservation.UseCase,
	events EventPublisher,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:      txRunner,
		variantRepo:   variantRepo,
		branchRepo:    branchRepo,
		customerRepo:  customerRepo,
		ticketRepo:    ticketRepo,
		folioUC:       folioUC,
		inventoryUC:   inventoryUC,
		reservationUC: reservationUC,
		events:        events,
	}
}

// resolvedLine línea ya validada contra catálogo/ticket, con precio fijado
// por el servidor.
type resolvedLine struct {
	kind         string
	variantID    string
	ticketID     string
	ticketPartID string
	description  string
	qty          int64
	unitPrice    decimal.Decimal
	discount     decimal.Decimal
	subtotal     decimal.Decimal
	advance      decimal.Decimal // anticipo del ticket, se descuenta del subtotal
}

// CreateSale ejecuta el protocolo completo de la venta. userID/ip/userAgent
// son el actor que queda en los movimientos del libro.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest, userID, ip, userAgent string) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptySale
	}
	if in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.Payment.Amount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Payment.Amount.GreaterThan(decimal.Zero) && !validPaymentMethod(in.Payment.Method) {
		return nil, domain.ErrInvalidInput
	}

	// Resolución de líneas fuera de la transacción (solo lectura). El precio
	// de líneas de ticket se relee del ticket: nunca se confía en el cliente.
	lines, headerTicketID, err := uc.resolveLines(in.Lines)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.subtotal).Sub(l.advance)
	}
	totals, err := ComputeTotals(subtotal, in.Discount, in.DiscountPercent)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// El folio se emite en su propia transacción antes de la venta: si la
	// venta aborta el número queda abandonado, nunca se reutiliza.
	saleFolio, err := uc.folioUC.NextFolio(ctx, entity.FolioPrefixVenta, in.BranchID, folio.CurrentPeriod(now))
	if err != nil {
		return nil, err
	}

	paid := in.Payment.Amount
	status := entity.SaleStatusPending
	if paid.GreaterThanOrEqual(totals.Total) {
		status = entity.SaleStatusPaid
	}
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		Folio:          saleFolio,
		BranchID:       in.BranchID,
		CustomerID:     in.CustomerID,
		TicketID:       headerTicketID,
		CashRegisterID: in.CashRegisterID,
		Status:         status,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Tax:            totals.Tax,
		Total:          totals.Total,
		PaidAmount:     paid,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	saleLines := make([]*entity.SaleLine, 0, len(lines))
	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		partRepo repository.TicketPartRepository,
		ticketRepo repository.TicketRepository,
	) error {
		for _, l := range lines {
			switch {
			case l.kind == entity.LineKindTicket:
				// Bloquear el ticket: dos ventas concurrentes no pueden
				// facturar el mismo.
				tk, err := ticketRepo.GetForUpdate(l.ticketID)
				if err != nil {
					return err
				}
				if tk == nil {
					return domain.ErrTicketNotFound
				}
				if tk.Billed {
					return domain.ErrTicketAlreadyBilled
				}
				if err := ticketRepo.MarkBilled(l.ticketID); err != nil {
					return err
				}
			case l.ticketPartID != "":
				// La línea proviene de una reserva: el descuento de stock ya
				// está apartado, se consume la reserva (EGR incluido). La
				// reserva debe corresponder a la línea y a la sucursal de la
				// venta antes de tocar nada.
				part, err := partRepo.GetForUpdate(l.ticketPartID)
				if err != nil {
					return err
				}
				if part == nil {
					return domain.ErrNotFound
				}
				if part.BranchID != in.BranchID || part.VariantID != l.variantID || part.Qty != l.qty {
					return fmt.Errorf("%w: la reserva no corresponde a la línea", domain.ErrInvalidInput)
				}
				if _, err := uc.reservationUC.ConsumeInTx(partRepo, stockRepo, movRepo,
					l.ticketPartID, saleFolio, userID, ip, userAgent, now); err != nil {
					return err
				}
			default:
				// Línea ordinaria: VTA contra el disponible, con bloqueo de fila.
				if err := uc.inventoryUC.ApplyVTAInTx(movRepo, stockRepo,
					in.BranchID, l.variantID, l.qty, saleFolio, userID, ip, userAgent, now); err != nil {
					return err
				}
			}
		}

		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, l := range lines {
			line := &entity.SaleLine{
				ID:           uuid.New().String(),
				SaleID:       sale.ID,
				Kind:         l.kind,
				VariantID:    l.variantID,
				TicketID:     l.ticketID,
				TicketPartID: l.ticketPartID,
				Description:  l.description,
				Qty:          l.qty,
				UnitPrice:    l.unitPrice,
				Discount:     l.discount,
				Subtotal:     l.subtotal,
			}
			if err := saleRepo.CreateLine(line); err != nil {
				return err
			}
			saleLines = append(saleLines, line)
		}
		if paid.GreaterThan(decimal.Zero) {
			payment := &entity.Payment{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				Amount:    paid,
				Method:    in.Payment.Method,
				Reference: in.Payment.Reference,
				CreatedBy: userID,
				CreatedAt: now,
			}
			if err := saleRepo.CreatePayment(payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.events != nil {
		uc.events.Publish(ctx, EventSaleCreated, sale)
	}
	return toSaleResponse(sale, saleLines, nil), nil
}

// resolveLines valida cada línea y fija precio y cantidad del lado servidor.
func (uc *CreateSaleUseCase) resolveLines(in []dto.SaleLineRequest) ([]resolvedLine, string, error) {
	lines := make([]resolvedLine, 0, len(in))
	headerTicketID := ""
	for i := range in {
		req := &in[i]
		switch {
		case req.TicketID != "" && req.VariantID == "":
			ticket, err := uc.ticketRepo.GetByID(req.TicketID)
			if err != nil {
				return nil, "", err
			}
			if ticket == nil {
				return nil, "", domain.ErrTicketNotFound
			}
			if ticket.Billed {
				return nil, "", domain.ErrTicketAlreadyBilled
			}
			price := ticket.BillablePrice()
			desc := req.Description
			if desc == "" {
				desc = "Servicio de reparación " + ticket.Folio
			}
			if headerTicketID == "" {
				headerTicketID = ticket.ID
			}
			// Cantidad fija 1 y precio releído del ticket; el anticipo se
			// descuenta del subtotal de la venta.
			lines = append(lines, resolvedLine{
				kind:        entity.LineKindTicket,
				ticketID:    ticket.ID,
				description: desc,
				qty:         1,
				unitPrice:   price,
				subtotal:    price,
				advance:     ticket.AdvancePayment,
			})
		case req.VariantID != "" && req.TicketID == "":
			if req.Qty <= 0 {
				return nil, "", domain.ErrInvalidInput
			}
			if req.Discount.LessThan(decimal.Zero) {
				return nil, "", domain.ErrInvalidDiscount
			}
			variant, err := uc.variantRepo.GetByID(req.VariantID)
			if err != nil {
				return nil, "", err
			}
			if variant == nil {
				return nil, "", domain.ErrNotFound
			}
			price := req.UnitPrice
			if price.LessThan(decimal.Zero) {
				return nil, "", domain.ErrInvalidInput
			}
			if price.IsZero() {
				price = variant.Price
			}
			desc := req.Description
			if desc == "" {
				desc = variant.Name
			}
			qty := decimal.NewFromInt(req.Qty)
			sub := qty.Mul(price).Sub(req.Discount)
			if sub.LessThan(decimal.Zero) {
				return nil, "", domain.ErrInvalidDiscount
			}
			lines = append(lines, resolvedLine{
				kind:         entity.LineKindVariant,
				variantID:    req.VariantID,
				ticketPartID: req.TicketPartID,
				description:  desc,
				qty:          req.Qty,
				unitPrice:    price,
				discount:     req.Discount,
				subtotal:     sub,
			})
		default:
			// ni variante ni ticket, o ambos
			return nil, "", domain.ErrInvalidInput
		}
	}
	return lines, headerTicketID, nil
}

func validPaymentMethod(m string) bool {
	switch m {
	case entity.PaymentMethodEfectivo, entity.PaymentMethodTarjeta, entity.PaymentMethodTransferencia:
		return true
	}
	return false
}

func toSaleResponse(s *entity.Sale, lines []*entity.SaleLine, payments []*entity.Payment) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:             s.ID,
		Folio:          s.Folio,
		BranchID:       s.BranchID,
		CustomerID:     s.CustomerID,
		TicketID:       s.TicketID,
		Status:         s.Status,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		Tax:            s.Tax,
		Total:          s.Total,
		PaidAmount:     s.PaidAmount,
		CreatedAt:      s.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:          l.ID,
			Kind:        l.Kind,
			VariantID:   l.VariantID,
			TicketID:    l.TicketID,
			Description: l.Description,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
			Subtotal:    l.Subtotal,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID,
			SaleID:    p.SaleID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return resp
}
