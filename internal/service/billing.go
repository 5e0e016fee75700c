// Package service holds the billing logic that sits above raw persistence:
// the overdue sweep and cash-flow report assembly.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"festops/internal/domain"
	"festops/internal/store"
)

type BillingService struct {
	payments store.PaymentStore
	events   store.EventStore
}

func NewBillingService(payments store.PaymentStore, events store.EventStore) *BillingService {
	return &BillingService{payments: payments, events: events}
}

// SweepOverdue flips pending payments past their due date to overdue.
// Called on demand before reports and periodically by the server loop.
func (s *BillingService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.payments.MarkOverduePayments(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("overdue sweep: %w", err)
	}
	if n > 0 {
		log.Printf("billing: marked %d payments overdue", n)
	}
	return n, nil
}

// CashFlow assembles the report for [from, to]. The sweep runs first so the
// pending/overdue split reflects today's date, not the last write.
func (s *BillingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("report range: to must be after from")
	}
	if _, err := s.SweepOverdue(ctx); err != nil {
		return nil, err
	}

	paid, pending, overdue, err := s.payments.CashFlowTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	months, err := s.payments.CashFlowMonths(ctx, from, to)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.events.CountUpcomingEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.CashFlowReport{
		From:           from,
		To:             to,
		TotalPaid:      paid,
		TotalPending:   pending,
		TotalOverdue:   overdue,
		UpcomingEvents: upcoming,
		Months:         months,
	}, nil
}

// RunSweepLoop runs the overdue sweep every interval until ctx is done.
func (s *BillingService) RunSweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepOverdue(ctx); err != nil {
				log.Printf("billing: sweep failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
