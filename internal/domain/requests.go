package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ListResponse is the envelope returned by every list endpoint.
type ListResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// CreateClientRequest is the payload for POST /clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r CreateClientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return errors.New("email is malformed")
	}
	return nil
}

// UpdateClientRequest is a partial patch; nil fields are left untouched.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (r UpdateClientRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Email != nil && *r.Email != "" && !strings.Contains(*r.Email, "@") {
		return errors.New("email is malformed")
	}
	return nil
}

// Apply merges the patch into c, refreshing UpdatedAt.
func (r UpdateClientRequest) Apply(c Client) Client {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	c.UpdatedAt = time.Now().UTC()
	return c
}

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	ClientID   string      `json:"client_id"`
	Title      string      `json:"title"`
	Date       time.Time   `json:"date"`
	Guests     int         `json:"guests"`
	Package    string      `json:"package"`
	TotalValue int64       `json:"total_value"`
	Status     EventStatus `json:"status"`
	Notes      string      `json:"notes"`
}

func (r CreateEventRequest) Validate() error {
	if r.ClientID == "" {
		return errors.New("client_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if r.Guests < 0 {
		return errors.New("guests must be non-negative")
	}
	if r.TotalValue < 0 {
		return errors.New("total_value must be non-negative")
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}

// UpdateEventRequest is a partial patch; nil fields are left untouched.
type UpdateEventRequest struct {
	Title      *string      `json:"title,omitempty"`
	Date       *time.Time   `json:"date,omitempty"`
	Guests     *int         `json:"guests,omitempty"`
	Package    *string      `json:"package,omitempty"`
	TotalValue *int64       `json:"total_value,omitempty"`
	Status     *EventStatus `json:"status,omitempty"`
	Notes      *string      `json:"notes,omitempty"`
}

func (r UpdateEventRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.Guests != nil && *r.Guests < 0 {
		return errors.New("guests must be non-negative")
	}
	if r.TotalValue != nil && *r.TotalValue < 0 {
		return errors.New("total_value must be non-negative")
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", *r.Status)
	}
	return nil
}

// Apply merges the patch into e, refreshing UpdatedAt.
func (r UpdateEventRequest) Apply(e Event) Event {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Date != nil {
		e.Date = *r.Date
	}
	if r.Guests != nil {
		e.Guests = *r.Guests
	}
	if r.Package != nil {
		e.Package = *r.Package
	}
	if r.TotalValue != nil {
		e.TotalValue = *r.TotalValue
	}
	if r.Status != nil {
		e.Status = *r.Status
	}
	if r.Notes != nil {
		e.Notes = *r.Notes
	}
	e.UpdatedAt = time.Now().UTC()
	return e
}

// CreatePaymentRequest is the payload for POST /payments.
type CreatePaymentRequest struct {
	EventID string        `json:"event_id"`
	Amount  int64         `json:"amount"`
	Method  PaymentMethod `json:"method"`
	Status  PaymentStatus `json:"status"`
	DueDate time.Time     `json:"due_date"`
	Notes   string        `json:"notes"`
}

func (r CreatePaymentRequest) Validate() error {
	if r.EventID == "" {
		return errors.New("event_id is required")
	}
	if r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !r.Method.Valid() {
		return fmt.Errorf("unknown method %q", r.Method)
	}
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	if r.DueDate.IsZero() {
		return errors.New("due_date is required")
	}
	return nil
}

// UpdatePaymentRequest is a partial patch; nil fields are left untouched.
type UpdatePaymentRequest struct {
	Amount  *int64         `json:"amount,omitempty"`
	Method  *PaymentMethod `json:"method,omitempty"`
	Status  *PaymentStatus `json:"status,omitempty"`
	DueDate *time.Time     `json:"due_date,omitempty"`
	PaidAt  *time.Time     `json:"paid_at,omitempty"`
	Notes   *string        `json:"notes,omitempty"`
}

func (r UpdatePaymentRequest) Validate() error {
	if r.Amount != nil && *r.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if r.Method != nil && !r.Method.Valid() {
		return fmt.Errorf("unknown method %q", *r.Method)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", *r.Status)
	}
	return nil
}

// Apply merges the patch into p, refreshing UpdatedAt. Marking a payment
// paid without an explicit paid_at stamps the current time.
func (r UpdatePaymentRequest) Apply(p Payment) Payment {
	if r.Amount != nil {
		p.Amount = *r.Amount
	}
	if r.Method != nil {
		p.Method = *r.Method
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.DueDate != nil {
		p.DueDate = *r.DueDate
	}
	if r.PaidAt != nil {
		p.PaidAt = r.PaidAt
	}
	if p.Status == PaymentPaid && p.PaidAt == nil {
		now := time.Now().UTC()
		p.PaidAt = &now
	}
	p.UpdatedAt = time.Now().UTC()
	return p
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}
