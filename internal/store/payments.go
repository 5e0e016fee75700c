package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"festops/internal/domain"
)

var paymentSortable = map[string]string{
	"dueDate":   "p.due_date",
	"amount":    "p.amount",
	"status":    "p.status",
	"paidAt":    "p.paid_at",
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
}

const paymentColumns = "p.id, p.event_id, p.amount, p.method, p.status, p.due_date, p.paid_at, p.notes, p.created_at, p.updated_at"

// CreatePayment inserts a new payment row.
func (s *Postgres) CreatePayment(ctx context.Context, p domain.Payment) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO payments (id, event_id, amount, method, status, due_date, paid_at, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.EventID, p.Amount, p.Method, p.Status, p.DueDate, p.PaidAt, p.Notes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("payment insert failed: %w", err)
	}
	return nil
}

// GetPayment retrieves a single payment by ID.
func (s *Postgres) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Db.QueryRow(ctx,
		"SELECT "+paymentColumns+" FROM payments p WHERE p.id = $1", id).
		Scan(&p.ID, &p.EventID, &p.Amount, &p.Method, &p.Status, &p.DueDate, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// UpdatePayment writes the full payment row.
func (s *Postgres) UpdatePayment(ctx context.Context, p domain.Payment) error {
	tag, err := s.Db.Exec(ctx,
		`UPDATE payments SET amount = $2, method = $3, status = $4, due_date = $5,
		 paid_at = $6, notes = $7, updated_at = $8 WHERE id = $1`,
		p.ID, p.Amount, p.Method, p.Status, p.DueDate, p.PaidAt, p.Notes, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("payment update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePayment removes a payment row.
func (s *Postgres) DeletePayment(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("payment delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPayments returns one page of payments matching the query.
func (s *Postgres) ListPayments(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Payment], error) {
	q = q.Normalize()

	var where whereBuilder
	if v := q.Filter(domain.FilterStatus); v != "" {
		where.add("p.status = $%d", v)
	}
	if v := q.Filter(domain.FilterEventID); v != "" {
		where.add("p.event_id = $%d", v)
	}
	if v := q.Filter(domain.FilterMethod); v != "" {
		where.add("p.method = $%d", v)
	}
	if v := q.Filter(domain.FilterFrom); v != "" {
		if t, ok := parseFilterTime(v); ok {
			where.add("p.due_date >= $%d", t)
		}
	}
	if v := q.Filter(domain.FilterTo); v != "" {
		if t, ok := parseFilterTime(v); ok {
			where.add("p.due_date <= $%d", t)
		}
	}
	if q.Search != "" {
		where.add("p.notes ILIKE $%d", likePattern(q.Search))
	}

	var total int64
	if err := s.Db.QueryRow(ctx, "SELECT COUNT(*) FROM payments p"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("payment count failed: %w", err)
	}

	sql := "SELECT " + paymentColumns + " FROM payments p" + where.sql() +
		orderClause(paymentSortable, q, "p.due_date") +
		fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset())
	rows, err := s.Db.Query(ctx, sql, where.args...)
	if err != nil {
		return nil, fmt.Errorf("payment list failed: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Payment, 0, q.Limit)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.EventID, &p.Amount, &p.Method, &p.Status, &p.DueDate,
			&p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("payment scan failed: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ListResponse[domain.Payment]{
		Items:      items,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// MarkOverduePayments flips pending payments past their due date to overdue
// inside one transaction, returning how many rows changed.
func (s *Postgres) MarkOverduePayments(ctx context.Context, asOf time.Time) (int64, error) {
	tx, err := s.Db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"UPDATE payments SET status = $1, updated_at = $2 WHERE status = $3 AND due_date < $2",
		domain.PaymentOverdue, asOf, domain.PaymentPending)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CashFlowTotals sums payment amounts by status over a due-date window.
func (s *Postgres) CashFlowTotals(ctx context.Context, from, to time.Time) (paid, pending, overdue int64, err error) {
	err = s.Db.QueryRow(ctx,
		`SELECT
		   COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
		   COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
		   COALESCE(SUM(amount) FILTER (WHERE status = 'overdue'), 0)
		 FROM payments WHERE due_date >= $1 AND due_date <= $2`,
		from, to).Scan(&paid, &pending, &overdue)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cash flow totals failed: %w", err)
	}
	return paid, pending, overdue, nil
}

// CashFlowMonths buckets income (paid) and expected (all) amounts by the
// month of the due date, oldest first.
func (s *Postgres) CashFlowMonths(ctx context.Context, from, to time.Time) ([]domain.CashFlowMonth, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT to_char(date_trunc('month', due_date), 'YYYY-MM') AS month,
		   COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
		   COALESCE(SUM(amount), 0)
		 FROM payments WHERE due_date >= $1 AND due_date <= $2
		 GROUP BY 1 ORDER BY 1`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("cash flow months failed: %w", err)
	}
	defer rows.Close()

	var months []domain.CashFlowMonth
	for rows.Next() {
		var m domain.CashFlowMonth
		if err := rows.Scan(&m.Month, &m.Income, &m.Expected); err != nil {
			return nil, fmt.Errorf("cash flow scan failed: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}
