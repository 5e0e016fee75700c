// Package store holds the persistence interfaces consumed by the API layer
// and their Postgres implementation.
package store

import (
	"context"
	"errors"
	"time"

	"festops/internal/domain"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrClientHasEvents    = errors.New("client has events")
	ErrEventHasPayments   = errors.New("event has payments")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// ClientStore persists customers.
type ClientStore interface {
	CreateClient(ctx context.Context, c domain.Client) error
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	UpdateClient(ctx context.Context, c domain.Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Client], error)
}

// EventStore persists bookings. Reads carry the denormalized client summary.
type EventStore interface {
	CreateEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, e domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Event], error)
	CountUpcomingEvents(ctx context.Context, from, to time.Time) (int64, error)
}

// PaymentStore persists installments and answers cash-flow aggregates.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p domain.Payment) error
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, p domain.Payment) error
	DeletePayment(ctx context.Context, id string) error
	ListPayments(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Payment], error)
	MarkOverduePayments(ctx context.Context, asOf time.Time) (int64, error)
	CashFlowTotals(ctx context.Context, from, to time.Time) (paid, pending, overdue int64, err error)
	CashFlowMonths(ctx context.Context, from, to time.Time) ([]domain.CashFlowMonth, error)
}

// DocumentStore persists document metadata; contents live in the docstore.
type DocumentStore interface {
	CreateDocument(ctx context.Context, d domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[domain.Document], error)
}

// AuthStore persists operators and their login sessions.
type AuthStore interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Store is the full persistence surface the server wires together.
type Store interface {
	ClientStore
	EventStore
	PaymentStore
	DocumentStore
	AuthStore
}
