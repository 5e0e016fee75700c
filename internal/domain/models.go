package domain

import "time"

// Client is a customer of the buffet.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemID implements the listview item contract.
func (c Client) ItemID() string { return c.ID }

// EventStatus is the booking pipeline stage of an event.
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Valid reports whether s is a known pipeline stage.
func (s EventStatus) Valid() bool {
	switch s {
	case EventPending, EventConfirmed, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event is a booked (or prospective) party.
// Client is a denormalized read-only summary filled on reads; the
// authoritative link is ClientID.
type Event struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	Client     *Client     `json:"client,omitempty"`
	Title      string      `json:"title"`
	Date       time.Time   `json:"date"`
	Guests     int         `json:"guests"`
	Package    string      `json:"package,omitempty"`
	TotalValue int64       `json:"total_value"` // cents
	Status     EventStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ItemID implements the listview item contract.
func (e Event) ItemID() string { return e.ID }

// PaymentStatus tracks whether an installment has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// PaymentMethod is how an installment is (to be) settled.
type PaymentMethod string

const (
	MethodPix      PaymentMethod = "pix"
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodPix, MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Payment is one installment against an event.
type Payment struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	Event     *Event        `json:"event,omitempty"`
	Amount    int64         `json:"amount"` // cents
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	DueDate   time.Time     `json:"due_date"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ItemID implements the listview item contract.
func (p Payment) ItemID() string { return p.ID }

// Document is an uploaded file (contract, menu, receipt) attached to a
// client or an event. Content lives in the document store under StorageKey;
// only metadata is kept in the database.
type Document struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id,omitempty"`
	EventID     string    `json:"event_id,omitempty"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is a dashboard operator.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side login session referenced by a cookie token.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes the server page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

// CashFlowMonth is one bucket of the cash-flow report.
type CashFlowMonth struct {
	Month    string `json:"month"` // "2024-01"
	Income   int64  `json:"income"`
	Expected int64  `json:"expected"`
}

// CashFlowReport aggregates payment totals over a period.
type CashFlowReport struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	TotalPaid      int64           `json:"total_paid"`
	TotalPending   int64           `json:"total_pending"`
	TotalOverdue   int64           `json:"total_overdue"`
	UpcomingEvents int64           `json:"upcoming_events"`
	Months         []CashFlowMonth `json:"months"`
}
