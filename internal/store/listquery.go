package store

import (
	"fmt"
	"strings"
	"time"

	"festops/internal/domain"
)

// whereBuilder accumulates WHERE fragments with positional placeholders.
// Expressions use %d markers that are rewritten to $N in call order.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) add(expr string, args ...any) {
	idx := make([]any, len(args))
	for i := range args {
		idx[i] = len(b.args) + i + 1
	}
	b.args = append(b.args, args...)
	b.clauses = append(b.clauses, fmt.Sprintf(expr, idx...))
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// orderClause maps the requested sort key through the per-entity whitelist;
// unknown keys fall back to the entity default. Sort columns are never
// interpolated from user input directly.
func orderClause(sortable map[string]string, q domain.ListQuery, fallback string) string {
	col, ok := sortable[q.SortBy]
	if !ok {
		col = fallback
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// parseFilterTime accepts RFC3339 or a bare date for range filters.
func parseFilterTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// likePattern wraps a search term for ILIKE matching.
func likePattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}
