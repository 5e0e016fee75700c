// Package memstore is an in-memory store.Store used by handler tests and by
// the server's demo mode, where no database is available.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"festops/internal/domain"
	"festops/internal/store"
)

// Store keeps every entity in maps guarded by one RWMutex. Reads hand out
// copies, so callers can never alias internal state.
type Store struct {
	mu        sync.RWMutex
	clients   map[string]domain.Client
	events    map[string]domain.Event
	payments  map[string]domain.Payment
	documents map[string]domain.Document
	users     map[string]domain.User
	sessions  map[string]domain.Session
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		clients:   make(map[string]domain.Client),
		events:    make(map[string]domain.Event),
		payments:  make(map[string]domain.Payment),
		documents: make(map[string]domain.Document),
		users:     make(map[string]domain.User),
		sessions:  make(map[string]domain.Session),
	}
}

// page slices one page out of a pre-sorted result set.
func page[T any](items []T, q domain.ListQuery) ([]T, domain.Pagination) {
	total := int64(len(items))
	start := q.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, domain.NewPagination(q.Page, q.Limit, total)
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func inRange(t time.Time, q domain.ListQuery) bool {
	if v := q.Filter(domain.FilterFrom); v != "" {
		if from, ok := parseTime(v); ok && t.Before(from) {
			return false
		}
	}
	if v := q.Filter(domain.FilterTo); v != "" {
		if to, ok := parseTime(v); ok && t.After(to) {
			return false
		}
	}
	return true
}

func parseTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// less orders two comparables honoring the sort direction.
func ordered[T int64 | string](q domain.ListQuery, a, b T) bool {
	if q.SortOrder == domain.SortAsc {
		return a < b
	}
	return a > b
}

func orderedTime(q domain.ListQuery, a, b time.Time) bool {
	if q.SortOrder == domain.SortAsc {
		return a.Before(b)
	}
	return a.After(b)
}

// Clients

func (s *Store) CreateClient(_ context.Context, c domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
	return nil
}

func (s *Store) GetClient(_ context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) UpdateClient(_ context.Context, c domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ID]; !ok {
		return store.ErrNotFound
	}
	s.clients[c.ID] = c
	return nil
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return store.ErrNotFound
	}
	for _, e := range s.events {
		if e.ClientID == id {
			return store.ErrClientHasEvents
		}
	}
	delete(s.clients, id)
	return nil
}

func (s *Store) ListClients(_ context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Client], error) {
	q = q.Normalize()
	s.mu.RLock()
	all := make([]domain.Client, 0, len(s.clients))
	for _, c := range s.clients {
		if matches(q.Search, c.Name, c.Email, c.Phone) {
			all = append(all, c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch q.SortBy {
		case "name":
			return ordered(q, a.Name, b.Name)
		case "email":
			return ordered(q, a.Email, b.Email)
		case "updatedAt":
			return orderedTime(q, a.UpdatedAt, b.UpdatedAt)
		default:
			return orderedTime(q, a.CreatedAt, b.CreatedAt)
		}
	})

	items, pg := page(all, q)
	return &domain.ListResponse[domain.Client]{Items: items, Pagination: pg}, nil
}

// Events

func (s *Store) CreateEvent(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[e.ClientID]; !ok {
		return store.ErrNotFound
	}
	e.Client = nil
	s.events[e.ID] = e
	return nil
}

// withClient attaches the denormalized client summary. Callers hold the lock.
func (s *Store) withClient(e domain.Event) domain.Event {
	if c, ok := s.clients[e.ClientID]; ok {
		summary := domain.Client{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone}
		e.Client = &summary
	}
	return e
}

func (s *Store) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	e = s.withClient(e)
	return &e, nil
}

func (s *Store) UpdateEvent(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.events[e.ID]
	if !ok {
		return store.ErrNotFound
	}
	e.ClientID = prev.ClientID
	e.Client = nil
	s.events[e.ID] = e
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	for _, p := range s.payments {
		if p.EventID == id {
			return store.ErrEventHasPayments
		}
	}
	delete(s.events, id)
	return nil
}

func (s *Store) ListEvents(_ context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Event], error) {
	q = q.Normalize()
	s.mu.RLock()
	all := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if v := q.Filter(domain.FilterStatus); v != "" && string(e.Status) != v {
			continue
		}
		if v := q.Filter(domain.FilterClientID); v != "" && e.ClientID != v {
			continue
		}
		if !inRange(e.Date, q) {
			continue
		}
		clientName := ""
		if c, ok := s.clients[e.ClientID]; ok {
			clientName = c.Name
		}
		if !matches(q.Search, e.Title, clientName) {
			continue
		}
		all = append(all, s.withClient(e))
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch q.SortBy {
		case "title":
			return ordered(q, a.Title, b.Title)
		case "status":
			return ordered(q, string(a.Status), string(b.Status))
		case "totalValue":
			return ordered(q, a.TotalValue, b.TotalValue)
		case "createdAt":
			return orderedTime(q, a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return orderedTime(q, a.UpdatedAt, b.UpdatedAt)
		default:
			return orderedTime(q, a.Date, b.Date)
		}
	})

	items, pg := page(all, q)
	return &domain.ListResponse[domain.Event]{Items: items, Pagination: pg}, nil
}

func (s *Store) CountUpcomingEvents(_ context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.events {
		if e.Status == domain.EventCancelled {
			continue
		}
		if !e.Date.Before(from) && !e.Date.After(to) {
			n++
		}
	}
	return n, nil
}

// Payments

func (s *Store) CreatePayment(_ context.Context, p domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[p.EventID]; !ok {
		return store.ErrNotFound
	}
	p.Event = nil
	s.payments[p.ID] = p
	return nil
}

func (s *Store) GetPayment(_ context.Context, id string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) UpdatePayment(_ context.Context, p domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.payments[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	p.EventID = prev.EventID
	p.Event = nil
	s.payments[p.ID] = p
	return nil
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

func (s *Store) ListPayments(_ context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Payment], error) {
	q = q.Normalize()
	s.mu.RLock()
	all := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if v := q.Filter(domain.FilterStatus); v != "" && string(p.Status) != v {
			continue
		}
		if v := q.Filter(domain.FilterEventID); v != "" && p.EventID != v {
			continue
		}
		if v := q.Filter(domain.FilterMethod); v != "" && string(p.Method) != v {
			continue
		}
		if !inRange(p.DueDate, q) {
			continue
		}
		if !matches(q.Search, p.Notes) {
			continue
		}
		all = append(all, p)
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch q.SortBy {
		case "amount":
			return ordered(q, a.Amount, b.Amount)
		case "status":
			return ordered(q, string(a.Status), string(b.Status))
		case "createdAt":
			return orderedTime(q, a.CreatedAt, b.CreatedAt)
		case "updatedAt":
			return orderedTime(q, a.UpdatedAt, b.UpdatedAt)
		default:
			return orderedTime(q, a.DueDate, b.DueDate)
		}
	})

	items, pg := page(all, q)
	return &domain.ListResponse[domain.Payment]{Items: items, Pagination: pg}, nil
}

func (s *Store) MarkOverduePayments(_ context.Context, asOf time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.payments {
		if p.Status == domain.PaymentPending && p.DueDate.Before(asOf) {
			p.Status = domain.PaymentOverdue
			p.UpdatedAt = asOf
			s.payments[id] = p
			n++
		}
	}
	return n, nil
}

func (s *Store) CashFlowTotals(_ context.Context, from, to time.Time) (paid, pending, overdue int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.DueDate.Before(from) || p.DueDate.After(to) {
			continue
		}
		switch p.Status {
		case domain.PaymentPaid:
			paid += p.Amount
		case domain.PaymentPending:
			pending += p.Amount
		case domain.PaymentOverdue:
			overdue += p.Amount
		}
	}
	return paid, pending, overdue, nil
}

func (s *Store) CashFlowMonths(_ context.Context, from, to time.Time) ([]domain.CashFlowMonth, error) {
	s.mu.RLock()
	byMonth := map[string]*domain.CashFlowMonth{}
	for _, p := range s.payments {
		if p.DueDate.Before(from) || p.DueDate.After(to) {
			continue
		}
		key := p.DueDate.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &domain.CashFlowMonth{Month: key}
			byMonth[key] = m
		}
		m.Expected += p.Amount
		if p.Status == domain.PaymentPaid {
			m.Income += p.Amount
		}
	}
	s.mu.RUnlock()

	months := make([]domain.CashFlowMonth, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months, nil
}

// Documents

func (s *Store) CreateDocument(_ context.Context, d domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.ID] = d
	return nil
}

func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *Store) ListDocuments(_ context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Document], error) {
	q = q.Normalize()
	s.mu.RLock()
	all := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if v := q.Filter(domain.FilterClientID); v != "" && d.ClientID != v {
			continue
		}
		if v := q.Filter(domain.FilterEventID); v != "" && d.EventID != v {
			continue
		}
		if !matches(q.Search, d.Name) {
			continue
		}
		all = append(all, d)
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch q.SortBy {
		case "name":
			return ordered(q, a.Name, b.Name)
		case "size":
			return ordered(q, a.Size, b.Size)
		default:
			return orderedTime(q, a.CreatedAt, b.CreatedAt)
		}
	})

	items, pg := page(all, q)
	return &domain.ListResponse[domain.Document]{Items: items, Pagination: pg}, nil
}

// Auth

func (s *Store) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateSession(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, store.ErrSessionExpired
	}
	return &sess, nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
