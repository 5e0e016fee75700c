package domain

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter keys understood by the list endpoints. Unknown keys are ignored.
const (
	FilterStatus   = "status"
	FilterClientID = "client_id"
	FilterEventID  = "event_id"
	FilterMethod   = "method"
	FilterFrom     = "from" // inclusive RFC3339 lower bound on the entity date
	FilterTo       = "to"   // inclusive RFC3339 upper bound
)

// ListQuery carries pagination, sorting, free-text search and the
// entity-specific filters of a list request.
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string
	Filters   map[string]string
}

// Normalize clamps pagination and fills defaults, returning a copy.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = SortDesc
	}
	return q
}

// Filter returns the named filter value, or "" when unset.
func (q ListQuery) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return q.Filters[key]
}

// WithFilter returns a copy of q with the filter set, allocating the map
// lazily so zero-value queries stay cheap.
func (q ListQuery) WithFilter(key, value string) ListQuery {
	m := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		m[k] = v
	}
	m[key] = value
	q.Filters = m
	return q
}

// Offset is the row offset of the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
