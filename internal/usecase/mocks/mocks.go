package mocks

import (
	"context"
	"sync"

	"github.com/finbook/udhaar/internal/domain"
)

// MockLedgerService is a mock implementation of usecase.LedgerService.
// Every call appends its name to Calls so tests can assert refetch order.
type MockLedgerService struct {
	mu    sync.Mutex
	Calls []string

	ListFunc        func(ctx context.Context, filter domain.ListFilter) ([]domain.Agreement, error)
	GetFunc         func(ctx context.Context, id string) (*domain.AgreementDetail, error)
	CreateFunc      func(ctx context.Context, in domain.AgreementInput) (*domain.Agreement, error)
	UpdateFunc      func(ctx context.Context, id string, in domain.AgreementInput) (*domain.Agreement, error)
	DeleteFunc      func(ctx context.Context, id string) error
	CloseFunc       func(ctx context.Context, id string) (*domain.Agreement, error)
	ReopenFunc      func(ctx context.Context, id string) (*domain.Agreement, error)
	CreateEventFunc func(ctx context.Context, agreementID string, in domain.EventInput) (*domain.Event, error)
	UpdateEventFunc func(ctx context.Context, agreementID, eventID string, in domain.EventInput) (*domain.Event, error)
	DeleteEventFunc func(ctx context.Context, agreementID, eventID string) error
}

func NewMockLedgerService() *MockLedgerService {
	return &MockLedgerService{}
}

func (m *MockLedgerService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

// CallNames returns a copy of the recorded call sequence.
func (m *MockLedgerService) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	copy(out, m.Calls)
	return out
}

func (m *MockLedgerService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Agreement, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockLedgerService) Get(ctx context.Context, id string) (*domain.AgreementDetail, error) {
	m.record("Get")
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrAgreementNotFound
}

func (m *MockLedgerService) Create(ctx context.Context, in domain.AgreementInput) (*domain.Agreement, error) {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &domain.Agreement{ID: "mock-id"}, nil
}

func (m *MockLedgerService) Update(ctx context.Context, id string, in domain.AgreementInput) (*domain.Agreement, error) {
	m.record("Update")
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	return &domain.Agreement{ID: id}, nil
}

func (m *MockLedgerService) Delete(ctx context.Context, id string) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockLedgerService) Close(ctx context.Context, id string) (*domain.Agreement, error) {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, id)
	}
	return &domain.Agreement{ID: id, Status: domain.StatusClosed}, nil
}

func (m *MockLedgerService) Reopen(ctx context.Context, id string) (*domain.Agreement, error) {
	m.record("Reopen")
	if m.ReopenFunc != nil {
		return m.ReopenFunc(ctx, id)
	}
	return &domain.Agreement{ID: id, Status: domain.StatusOpen}, nil
}

func (m *MockLedgerService) CreateEvent(ctx context.Context, agreementID string, in domain.EventInput) (*domain.Event, error) {
	m.record("CreateEvent")
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, agreementID, in)
	}
	return &domain.Event{ID: "mock-event", AgreementID: agreementID}, nil
}

func (m *MockLedgerService) UpdateEvent(ctx context.Context, agreementID, eventID string, in domain.EventInput) (*domain.Event, error) {
	m.record("UpdateEvent")
	if m.UpdateEventFunc != nil {
		return m.UpdateEventFunc(ctx, agreementID, eventID, in)
	}
	return &domain.Event{ID: eventID, AgreementID: agreementID}, nil
}

func (m *MockLedgerService) DeleteEvent(ctx context.Context, agreementID, eventID string) error {
	m.record("DeleteEvent")
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, agreementID, eventID)
	}
	return nil
}
