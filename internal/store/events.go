package store

import (
	"context"
	"fmt"
	"time"

	"festops/internal/domain"
)

var eventSortable = map[string]string{
	"date":       "e.date",
	"title":      "e.title",
	"status":     "e.status",
	"totalValue": "e.total_value",
	"createdAt":  "e.created_at",
	"updatedAt":  "e.updated_at",
}

const eventColumns = "e.id, e.client_id, e.title, e.date, e.guests, e.package, e.total_value, e.status, e.notes, e.created_at, e.updated_at"

// CreateEvent inserts a new event row.
func (s *Postgres) CreateEvent(ctx context.Context, e domain.Event) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO events (id, client_id, title, date, guests, package, total_value, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.ClientID, e.Title, e.Date, e.Guests, e.Package, e.TotalValue, e.Status, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("event insert failed: %w", err)
	}
	return nil
}

// GetEvent retrieves a single event with its client summary.
func (s *Postgres) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := s.Db.QueryRow(ctx,
		"SELECT "+eventColumns+", c.name, c.email, c.phone FROM events e JOIN clients c ON c.id = e.client_id WHERE e.id = $1", id)

	var e domain.Event
	var c domain.Client
	err := row.Scan(&e.ID, &e.ClientID, &e.Title, &e.Date, &e.Guests, &e.Package, &e.TotalValue,
		&e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		return nil, mapNoRows(err)
	}
	c.ID = e.ClientID
	e.Client = &c
	return &e, nil
}

// UpdateEvent writes the full event row.
func (s *Postgres) UpdateEvent(ctx context.Context, e domain.Event) error {
	tag, err := s.Db.Exec(ctx,
		`UPDATE events SET title = $2, date = $3, guests = $4, package = $5, total_value = $6,
		 status = $7, notes = $8, updated_at = $9 WHERE id = $1`,
		e.ID, e.Title, e.Date, e.Guests, e.Package, e.TotalValue, e.Status, e.Notes, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("event update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event; events with payments cannot be deleted.
func (s *Postgres) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.Db.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEventHasPayments
		}
		return fmt.Errorf("event delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns one page of events with client summaries.
func (s *Postgres) ListEvents(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Event], error) {
	q = q.Normalize()

	var where whereBuilder
	if v := q.Filter(domain.FilterStatus); v != "" {
		where.add("e.status = $%d", v)
	}
	if v := q.Filter(domain.FilterClientID); v != "" {
		where.add("e.client_id = $%d", v)
	}
	if v := q.Filter(domain.FilterFrom); v != "" {
		if t, ok := parseFilterTime(v); ok {
			where.add("e.date >= $%d", t)
		}
	}
	if v := q.Filter(domain.FilterTo); v != "" {
		if t, ok := parseFilterTime(v); ok {
			where.add("e.date <= $%d", t)
		}
	}
	if q.Search != "" {
		p := likePattern(q.Search)
		where.add("(e.title ILIKE $%d OR c.name ILIKE $%d)", p, p)
	}

	from := " FROM events e JOIN clients c ON c.id = e.client_id"

	var total int64
	if err := s.Db.QueryRow(ctx, "SELECT COUNT(*)"+from+where.sql(), where.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("event count failed: %w", err)
	}

	sql := "SELECT " + eventColumns + ", c.name, c.email, c.phone" + from + where.sql() +
		orderClause(eventSortable, q, "e.date") +
		fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset())
	rows, err := s.Db.Query(ctx, sql, where.args...)
	if err != nil {
		return nil, fmt.Errorf("event list failed: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Event, 0, q.Limit)
	for rows.Next() {
		var e domain.Event
		var c domain.Client
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Title, &e.Date, &e.Guests, &e.Package, &e.TotalValue,
			&e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("event scan failed: %w", err)
		}
		c.ID = e.ClientID
		e.Client = &c
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ListResponse[domain.Event]{
		Items:      items,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// CountUpcomingEvents counts non-cancelled events dated inside [from, to].
func (s *Postgres) CountUpcomingEvents(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.Db.QueryRow(ctx,
		"SELECT COUNT(*) FROM events WHERE date >= $1 AND date <= $2 AND status != $3",
		from, to, domain.EventCancelled).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("upcoming event count failed: %w", err)
	}
	return n, nil
}
