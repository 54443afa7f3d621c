// Package fakefinance is an in-memory implementation of the finance
// service's borrowing/lending REST contract. It backs the integration tests
// (which need a server free to disagree with naive client-side arithmetic)
// and doubles as a local development server. It models only the documented
// contract: interest fields are stored and echoed, never accrued.
package fakefinance

import (
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/finbook/udhaar/internal/domain"
)

// Store holds agreements and their events, recomputing aggregates and
// status server-side on every event mutation.
type Store struct {
	mu    sync.RWMutex
	recs  map[string]*record
	order []string
	now   func() time.Time
}

type record struct {
	agreement domain.Agreement
	events    []domain.Event
	override  *aggregateOverride
}

// aggregateOverride pins the aggregates a record reports, standing in for
// server-side computations (interest accrual) the fake does not model.
type aggregateOverride struct {
	total     decimal.Decimal
	remaining decimal.Decimal
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		recs: make(map[string]*record),
		now:  time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) find(kind domain.Kind, id string) (*record, error) {
	rec, ok := s.recs[id]
	if !ok || rec.agreement.Kind != kind {
		return nil, domain.ErrAgreementNotFound
	}
	return rec, nil
}

// List returns agreement summaries in creation order.
func (s *Store) List(kind domain.Kind, filter domain.ListFilter) []domain.Agreement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Agreement, 0, len(s.order))
	for _, id := range s.order {
		rec, ok := s.recs[id]
		if !ok || rec.agreement.Kind != kind {
			continue
		}
		if filter.Status != "" && rec.agreement.Status != filter.Status {
			continue
		}
		if filter.Counterparty != "" &&
			!strings.Contains(strings.ToLower(rec.agreement.Counterparty), strings.ToLower(filter.Counterparty)) {
			continue
		}
		out = append(out, rec.agreement)
	}
	return out
}

// Get returns one agreement with its events.
func (s *Store) Get(kind domain.Kind, id string) (*domain.AgreementDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.AgreementDetail{Agreement: rec.agreement}
	detail.Events = append(detail.Events, rec.events...)
	return detail, nil
}

// Create records a new agreement with zeroed aggregates.
func (s *Store) Create(kind domain.Kind, in domain.AgreementInput) (*domain.Agreement, error) {
	if err := domain.ValidateAgreementInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	a := domain.Agreement{
		ID:           ulid.Make().String(),
		Kind:         kind,
		Counterparty: in.Counterparty,
		Contact:      in.Contact,
		Principal:    in.Principal,
		Currency:     in.Currency,
		InterestRate: in.InterestRate,
		InterestType: in.InterestType,
		StartDate:    in.StartDate,
		DueDate:      in.DueDate,
		Purpose:      in.Purpose,
		Notes:        in.Notes,
		Status:       domain.StatusOpen,
		TotalSettled: decimal.Zero,
		Remaining:    in.Principal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.Currency == "" {
		a.Currency = "INR"
	}
	if a.InterestType == "" {
		a.InterestType = domain.InterestNone
	}

	s.recs[a.ID] = &record{agreement: a}
	s.order = append(s.order, a.ID)
	return &a, nil
}

// Update replaces the client-supplied fields and recomputes aggregates
// against the possibly-changed principal.
func (s *Store) Update(kind domain.Kind, id string, in domain.AgreementInput) (*domain.Agreement, error) {
	if err := domain.ValidateAgreementInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}

	a := &rec.agreement
	a.Counterparty = in.Counterparty
	a.Contact = in.Contact
	a.Principal = in.Principal
	if in.Currency != "" {
		a.Currency = in.Currency
	}
	a.InterestRate = in.InterestRate
	if in.InterestType != "" {
		a.InterestType = in.InterestType
	}
	a.StartDate = in.StartDate
	a.DueDate = in.DueDate
	a.Purpose = in.Purpose
	a.Notes = in.Notes
	a.UpdatedAt = s.now().UTC()

	// Editing fields never reopens a closed agreement; only the explicit
	// reopen action does.
	wasClosed := a.Status.Closed()
	closedAt := a.ClosedAt
	s.recompute(rec)
	if wasClosed && !a.Status.Closed() {
		a.Status = domain.StatusClosed
		a.ClosedAt = closedAt
	}

	out := *a
	return &out, nil
}

// Delete removes an agreement and, by composition, all of its events.
func (s *Store) Delete(kind domain.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(kind, id); err != nil {
		return err
	}

	delete(s.recs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CloseAgreement marks an agreement closed regardless of remaining amount.
func (s *Store) CloseAgreement(kind domain.Kind, id string) (*domain.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}
	if rec.agreement.Status.Closed() {
		return nil, domain.ErrAgreementClosed
	}

	s.close(rec)
	out := rec.agreement
	return &out, nil
}

// Reopen reverts a close, restoring a non-closed status without touching
// principal or recorded events.
func (s *Store) Reopen(kind domain.Kind, id string) (*domain.Agreement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}
	if !rec.agreement.Status.Closed() {
		return nil, domain.ErrAgreementNotClosed
	}

	a := &rec.agreement
	if a.TotalSettled.IsPositive() {
		a.Status = kind.PartialStatus()
	} else {
		a.Status = domain.StatusOpen
	}
	a.ClosedAt = nil
	a.UpdatedAt = s.now().UTC()

	out := *a
	return &out, nil
}

// AddEvent records a repayment/collection and recomputes the parent.
func (s *Store) AddEvent(kind domain.Kind, id string, in domain.EventInput) (*domain.Event, error) {
	if err := domain.ValidateEventInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}
	if rec.agreement.Status.Closed() {
		return nil, domain.ErrAgreementClosed
	}

	now := s.now().UTC()
	e := domain.Event{
		ID:              ulid.Make().String(),
		AgreementID:     id,
		Amount:          in.Amount,
		Date:            in.Date,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Note:            in.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	rec.events = append(rec.events, e)

	s.recompute(rec)
	if in.CloseAgreement && !rec.agreement.Status.Closed() {
		s.close(rec)
	}

	return &e, nil
}

// UpdateEvent amends a recorded event and recomputes the parent.
func (s *Store) UpdateEvent(kind domain.Kind, id, eventID string, in domain.EventInput) (*domain.Event, error) {
	if err := domain.ValidateEventInput(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return nil, err
	}

	for i := range rec.events {
		if rec.events[i].ID != eventID {
			continue
		}
		e := &rec.events[i]
		e.Amount = in.Amount
		e.Date = in.Date
		e.PaymentMethod = in.PaymentMethod
		e.ReferenceNumber = in.ReferenceNumber
		e.Note = in.Note
		e.UpdatedAt = s.now().UTC()

		s.recompute(rec)
		if in.CloseAgreement && !rec.agreement.Status.Closed() {
			s.close(rec)
		}

		out := *e
		return &out, nil
	}

	return nil, domain.ErrEventNotFound
}

// DeleteEvent removes a recorded event and recomputes the parent.
func (s *Store) DeleteEvent(kind domain.Kind, id, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(kind, id)
	if err != nil {
		return err
	}

	for i := range rec.events {
		if rec.events[i].ID == eventID {
			rec.events = append(rec.events[:i], rec.events[i+1:]...)
			s.recompute(rec)
			return nil
		}
	}
	return domain.ErrEventNotFound
}

// OverrideAggregates pins the aggregates reported for an agreement, letting
// tests make the server disagree with naive client-side subtraction. Status
// is still derived from the pinned values.
func (s *Store) OverrideAggregates(id string, total, remaining decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return
	}
	rec.override = &aggregateOverride{total: total, remaining: remaining}
	s.recompute(rec)
}

// recompute derives aggregates and status. Status becomes closed when the
// remaining amount reaches zero, partial once anything is settled, open
// otherwise. Explicit close/reopen transitions are handled by their actions.
func (s *Store) recompute(rec *record) {
	a := &rec.agreement

	if rec.override != nil {
		a.TotalSettled = rec.override.total
		a.Remaining = rec.override.remaining
	} else {
		total := decimal.Zero
		for _, e := range rec.events {
			total = total.Add(e.Amount)
		}
		a.TotalSettled = total
		a.Remaining = a.Principal.Sub(total)
	}

	switch {
	case !a.Remaining.IsPositive():
		a.Status = domain.StatusClosed
		if a.ClosedAt == nil {
			t := s.now().UTC()
			a.ClosedAt = &t
		}
	case a.TotalSettled.IsPositive():
		a.Status = a.Kind.PartialStatus()
		a.ClosedAt = nil
	default:
		a.Status = domain.StatusOpen
		a.ClosedAt = nil
	}

	a.UpdatedAt = s.now().UTC()
}

func (s *Store) close(rec *record) {
	a := &rec.agreement
	a.Status = domain.StatusClosed
	now := s.now().UTC()
	a.ClosedAt = &now
	a.UpdatedAt = now
}
