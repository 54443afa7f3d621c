package usecase

import (
	"context"

	"github.com/finbook/udhaar/internal/domain"
)

// LedgerService is the entity-client surface the view-state controller
// drives. It is satisfied by rest.Client for either resource kind.
type LedgerService interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Agreement, error)
	Get(ctx context.Context, id string) (*domain.AgreementDetail, error)
	Create(ctx context.Context, in domain.AgreementInput) (*domain.Agreement, error)
	Update(ctx context.Context, id string, in domain.AgreementInput) (*domain.Agreement, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context, id string) (*domain.Agreement, error)
	Reopen(ctx context.Context, id string) (*domain.Agreement, error)
	CreateEvent(ctx context.Context, agreementID string, in domain.EventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, agreementID, eventID string, in domain.EventInput) (*domain.Event, error)
	DeleteEvent(ctx context.Context, agreementID, eventID string) error
}
