package store

import (
	"context"
	"fmt"

	"festops/internal/domain"
)

var documentSortable = map[string]string{
	"name":      "name",
	"size":      "size",
	"createdAt": "created_at",
}

const documentColumns = "id, client_id, event_id, name, content_type, size, storage_key, created_at"

// CreateDocument inserts document metadata.
func (s *Postgres) CreateDocument(ctx context.Context, d domain.Document) error {
	_, err := s.Db.Exec(ctx,
		"INSERT INTO documents ("+documentColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		d.ID, d.ClientID, d.EventID, d.Name, d.ContentType, d.Size, d.StorageKey, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("document insert failed: %w", err)
	}
	return nil
}

// GetDocument retrieves document metadata by ID.
func (s *Postgres) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	err := s.Db.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id).
		Scan(&d.ID, &d.ClientID, &d.EventID, &d.Name, &d.ContentType, &d.Size, &d.StorageKey, &d.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &d, nil
}

// DeleteDocument removes document metadata.
func (s *Postgres) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("document delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDocuments returns one page of document metadata.
func (s *Postgres) ListDocuments(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Document], error) {
	q = q.Normalize()

	var where whereBuilder
	if v := q.Filter(domain.FilterClientID); v != "" {
		where.add("client_id = $%d", v)
	}
	if v := q.Filter(domain.FilterEventID); v != "" {
		where.add("event_id = $%d", v)
	}
	if q.Search != "" {
		where.add("name ILIKE $%d", likePattern(q.Search))
	}

	var total int64
	if err := s.Db.QueryRow(ctx, "SELECT COUNT(*) FROM documents"+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("document count failed: %w", err)
	}

	sql := "SELECT " + documentColumns + " FROM documents" + where.sql() +
		orderClause(documentSortable, q, "created_at") +
		fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset())
	rows, err := s.Db.Query(ctx, sql, where.args...)
	if err != nil {
		return nil, fmt.Errorf("document list failed: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Document, 0, q.Limit)
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.EventID, &d.Name, &d.ContentType, &d.Size, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("document scan failed: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ListResponse[domain.Document]{
		Items:      items,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}
