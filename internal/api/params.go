package api

import (
	"net/http"
	"strconv"

	"festops/internal/domain"
)

// parseListQuery reads the shared list parameters plus the whitelisted
// entity-specific filter keys from the URL query. Unknown filter keys are
// ignored.
func parseListQuery(r *http.Request, filterKeys ...string) domain.ListQuery {
	values := r.URL.Query()

	q := domain.ListQuery{
		SortBy:    values.Get("sortBy"),
		SortOrder: domain.SortOrder(values.Get("sortOrder")),
		Search:    values.Get("search"),
	}
	if v, err := strconv.Atoi(values.Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil {
		q.Limit = v
	}
	for _, key := range filterKeys {
		if v := values.Get(key); v != "" {
			q = q.WithFilter(key, v)
		}
	}
	return q.Normalize()
}
