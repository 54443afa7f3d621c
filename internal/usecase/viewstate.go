package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/udhaar/internal/domain"
)

// ViewState keeps one view's list, detail and filter state consistent with
// the finance service. It follows a single rule: derived/aggregate fields
// are never mutated locally; after every successful write the affected
// entity (and the list) is refetched.
//
// Each slot carries a generation token. A refetch captures the token before
// the network call and applies the response only if the token is still
// current, so a stale in-flight response can never overwrite newer state.
type ViewState struct {
	svc LedgerService
	now func() time.Time

	mu        sync.Mutex
	list      []domain.Agreement
	listGen   uint64
	detail    *domain.AgreementDetail
	detailID  string
	detailGen uint64

	search       string
	statusFilter domain.Status
}

// NewViewState creates a ViewState over svc.
func NewViewState(svc LedgerService) *ViewState {
	return &ViewState{
		svc: svc,
		now: time.Now,
	}
}

// RefreshList refetches the agreement list. Responses that lost the race to
// a newer refresh are discarded.
func (s *ViewState) RefreshList(ctx context.Context) error {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.mu.Unlock()

	items, err := s.svc.List(ctx, domain.ListFilter{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen {
		// A newer refresh superseded this one; its outcome is irrelevant.
		return nil
	}
	if err != nil {
		return err
	}
	s.list = items
	return nil
}

// OpenDetail loads an agreement into the detail slot.
func (s *ViewState) OpenDetail(ctx context.Context, id string) error {
	s.mu.Lock()
	s.detailID = id
	s.detailGen++
	gen := s.detailGen
	s.mu.Unlock()

	detail, err := s.svc.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.detailGen {
		return nil
	}
	if err != nil {
		return err
	}
	s.detail = detail
	return nil
}

// CloseDetail clears the detail slot.
func (s *ViewState) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailID = ""
	s.detail = nil
	s.detailGen++
}

// Detail returns the currently open detail, or nil.
func (s *ViewState) Detail() *domain.AgreementDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// refreshDetailIfOpen refetches the detail slot when it shows id.
func (s *ViewState) refreshDetailIfOpen(ctx context.Context, id string) error {
	s.mu.Lock()
	open := s.detailID == id
	s.mu.Unlock()
	if !open {
		return nil
	}
	return s.OpenDetail(ctx, id)
}

// CreateAgreement records a new agreement and refetches the list.
func (s *ViewState) CreateAgreement(ctx context.Context, in domain.AgreementInput) (*domain.Agreement, error) {
	a, err := s.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return a, s.RefreshList(ctx)
}

// UpdateAgreement edits an agreement, then refetches the list and, if the
// detail view shows it, the detail.
func (s *ViewState) UpdateAgreement(ctx context.Context, id string, in domain.AgreementInput) error {
	if _, err := s.svc.Update(ctx, id, in); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

// DeleteAgreement removes an agreement. If the detail view shows the deleted
// agreement it closes; the list is refetched.
func (s *ViewState) DeleteAgreement(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.detailID == id {
		s.detailID = ""
		s.detail = nil
		s.detailGen++
	}
	s.mu.Unlock()

	return s.RefreshList(ctx)
}

// CloseAgreement marks an agreement closed and refetches affected state.
func (s *ViewState) CloseAgreement(ctx context.Context, id string) error {
	if _, err := s.svc.Close(ctx, id); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

// ReopenAgreement reverts an explicit close and refetches affected state.
func (s *ViewState) ReopenAgreement(ctx context.Context, id string) error {
	if _, err := s.svc.Reopen(ctx, id); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

// RecordEvent records a repayment/collection against the open detail. On
// success the parent detail is refetched for its recomputed aggregates,
// then the list (cards show the same aggregates).
func (s *ViewState) RecordEvent(ctx context.Context, in domain.EventInput) error {
	id := s.openDetailID()
	if id == "" {
		return domain.ErrAgreementNotFound
	}

	if _, err := s.svc.CreateEvent(ctx, id, in); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

// AmendEvent edits a recorded event on the open detail, with the same
// refetch rule as RecordEvent.
func (s *ViewState) AmendEvent(ctx context.Context, eventID string, in domain.EventInput) error {
	id := s.openDetailID()
	if id == "" {
		return domain.ErrAgreementNotFound
	}

	if _, err := s.svc.UpdateEvent(ctx, id, eventID, in); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

// RemoveEvent deletes a recorded event on the open detail. The parent is
// refetched rather than locally decremented: with interest accrual the true
// remaining amount is not a local subtraction.
func (s *ViewState) RemoveEvent(ctx context.Context, eventID string) error {
	id := s.openDetailID()
	if id == "" {
		return domain.ErrAgreementNotFound
	}

	if err := s.svc.DeleteEvent(ctx, id, eventID); err != nil {
		return err
	}
	if err := s.refreshDetailIfOpen(ctx, id); err != nil {
		return err
	}
	return s.RefreshList(ctx)
}

func (s *ViewState) openDetailID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailID
}

// SetSearch sets the in-memory search filter (counterparty or purpose).
func (s *ViewState) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = query
}

// SetStatusFilter sets the in-memory status filter; empty means all.
func (s *ViewState) SetStatusFilter(status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusFilter = status
}

// Visible returns the cached list with the in-memory filters applied.
// Filtering never persists; it naturally resynchronizes on every refetch.
func (s *ViewState) Visible() []domain.Agreement {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(s.search)
	out := make([]domain.Agreement, 0, len(s.list))
	for _, a := range s.list {
		if s.statusFilter != "" && a.Status != s.statusFilter {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Counterparty), query) &&
			!strings.Contains(strings.ToLower(a.Purpose), query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// EstimateRemaining previews the remaining amount after a payment of the
// given size, floored at zero. It is an estimate only: interest accrual
// between render and submit can change the authoritative value, which must
// always be taken from the post-write refetch.
func (s *ViewState) EstimateRemaining(amount decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detail == nil {
		return decimal.Zero
	}
	estimate := s.detail.Remaining.Sub(amount)
	if estimate.IsNegative() {
		return decimal.Zero
	}
	return estimate
}

// Stats summarizes the cached list for the dashboard header.
type Stats struct {
	TotalOutstanding decimal.Decimal
	TotalSettled     decimal.Decimal
	OpenCount        int
	OverdueCount     int
}

// Stats computes dashboard aggregates over the cached list. These are sums
// of server-provided aggregates, not recomputations of any single one.
func (s *ViewState) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := domain.DateOf(s.now().UTC())
	stats := Stats{
		TotalOutstanding: decimal.Zero,
		TotalSettled:     decimal.Zero,
	}

	for i := range s.list {
		a := &s.list[i]
		stats.TotalSettled = stats.TotalSettled.Add(a.TotalSettled)
		if !a.Status.Closed() {
			stats.TotalOutstanding = stats.TotalOutstanding.Add(a.DisplayRemaining())
			stats.OpenCount++
		}
		if a.Overdue(today) {
			stats.OverdueCount++
		}
	}
	return stats
}
