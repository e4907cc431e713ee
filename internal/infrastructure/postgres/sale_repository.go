package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/domain"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
	"github.com/tu-usuario/taller-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, folio, branch_id, COALESCE(customer_id::text, ''), COALESCE(ticket_id::text, ''), COALESCE(cash_register_id::text, ''),
	status, subtotal, discount_amount, tax, total, paid_amount, COALESCE(created_by::text, ''), created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.Folio, &s.BranchID, &s.CustomerID, &s.TicketID, &s.CashRegisterID,
		&s.Status, &s.Subtotal, &s.DiscountAmount, &s.Tax, &s.Total, &s.PaidAmount,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera de la venta. El folio tiene restricción única.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, folio, branch_id, customer_id, ticket_id, cash_register_id, status, subtotal, discount_amount, tax, total, paid_amount, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Folio, sale.BranchID, sale.CustomerID, sale.TicketID, sale.CashRegisterID,
		sale.Status, sale.Subtotal, sale.DiscountAmount, sale.Tax, sale.Total, sale.PaidAmount,
		sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de venta (append-only).
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, kind, variant_id, ticket_id, ticket_part_id, description, qty, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.Kind, line.VariantID, line.TicketID, line.TicketPartID,
		line.Description, line.Qty, line.UnitPrice, line.Discount, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// CreatePayment persiste un abono (append-only).
func (r *SaleRepo) CreatePayment(payment *entity.Payment) error {
	query := `
		INSERT INTO sale_payments (id, sale_id, amount, method, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, payment.Amount, payment.Method, payment.Reference,
		payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, err := scanSale(r.q.QueryRow(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// GetForUpdate obtiene la venta y bloquea la cabecera para recalcular pagos.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	sale, err := scanSale(r.q.QueryRow(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return sale, nil
}

// UpdatePaid actualiza el acumulado pagado y el estado de la cabecera.
func (r *SaleRepo) UpdatePaid(id string, paidAmount decimal.Decimal, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET paid_amount = $2, status = $3, updated_at = now() WHERE id = $1`,
		id, paidAmount, status,
	)
	if err != nil {
		return fmt.Errorf("update sale paid: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetLines lista las líneas de una venta.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, kind, COALESCE(variant_id::text, ''), COALESCE(ticket_id::text, ''), COALESCE(ticket_part_id::text, ''),
			description, qty, unit_price, discount, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.Kind, &l.VariantID, &l.TicketID, &l.TicketPartID,
			&l.Description, &l.Qty, &l.UnitPrice, &l.Discount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// GetPayments lista los abonos de una venta en orden cronológico.
func (r *SaleRepo) GetPayments(saleID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, sale_id, amount, method, reference, COALESCE(created_by::text, ''), created_at
		FROM sale_payments WHERE sale_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Amount, &p.Method, &p.Reference,
			&p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Search lista ventas con filtros y paginación; devuelve el total para paginar.
func (r *SaleRepo) Search(filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	base := ` FROM sales WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.BranchID != "" {
		base += fmt.Sprintf(" AND branch_id = $%d", pos)
		args = append(args, filter.BranchID)
		pos++
	}
	if filter.CustomerID != "" {
		base += fmt.Sprintf(" AND customer_id = $%d", pos)
		args = append(args, filter.CustomerID)
		pos++
	}
	if filter.TicketID != "" {
		base += fmt.Sprintf(" AND ticket_id = $%d", pos)
		args = append(args, filter.TicketID)
		pos++
	}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.From != nil {
		base += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		base += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + base +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sale)
	}
	return list, total, rows.Err()
}
