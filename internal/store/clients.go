package store

import (
	"context"
	"fmt"

	"festops/internal/domain"
)

var clientSortable = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

const clientColumns = "id, name, email, phone, address, notes, created_at, updated_at"

// CreateClient inserts a new client row.
func (s *Postgres) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO clients ("+clientColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("client insert failed: %w", err)
	}
	return nil
}

// GetClient retrieves a single client by ID.
func (s *Postgres) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var c domain.Client
	err := s.Db.QueryRow(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &c, nil
}

// UpdateClient writes the full client row.
func (s *Postgres) UpdateClient(ctx context.Context, c domain.Client) error {
	tag, err := s.Db.Exec(ctx,
		"UPDATE clients SET name = $2, email = $3, phone = $4, address = $5, notes = $6, updated_at = $7 WHERE id = $1",
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("client update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client; clients with events cannot be deleted.
func (s *Postgres) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrClientHasEvents
		}
		return fmt.Errorf("client delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListClients returns one page of clients matching the query.
func (s *Postgres) ListClients(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Client], error) {
	q = q.Normalize()

	var where whereBuilder
	if q.Search != "" {
		p := likePattern(q.Search)
		where.add("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", p, p, p)
	}

	var total int64
	if err := s.Db.QueryRow(ctx, "SELECT COUNT(*) FROM clients"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("client count failed: %w", err)
	}

	sql := "SELECT " + clientColumns + " FROM clients" + where.sql() +
		orderClause(clientSortable, q, "created_at") +
		fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset())
	rows, err := s.Db.Query(ctx, sql, where.args...)
	if err != nil {
		return nil, fmt.Errorf("client list failed: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Client, 0, q.Limit)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("client scan failed: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ListResponse[domain.Client]{
		Items:      items,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}
