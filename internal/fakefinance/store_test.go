package fakefinance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finbook/udhaar/internal/domain"
)

func borrowingInput() domain.AgreementInput {
	return domain.AgreementInput{
		Counterparty: "Ramesh",
		Principal:    decimal.NewFromInt(50000),
		Currency:     "INR",
		StartDate:    domain.NewDate(2026, time.January, 15),
	}
}

func TestStoreCreateDefaults(t *testing.T) {
	s := NewStore()

	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	require.NotEmpty(t, a.ID)
	require.Equal(t, domain.StatusOpen, a.Status)
	require.True(t, a.TotalSettled.IsZero())
	require.True(t, a.Remaining.Equal(decimal.NewFromInt(50000)))
}

func TestStoreCreateRejectsInvalid(t *testing.T) {
	s := NewStore()

	in := borrowingInput()
	in.Counterparty = ""
	_, err := s.Create(domain.KindBorrowing, in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestStoreKindsAreSeparateNamespaces(t *testing.T) {
	s := NewStore()

	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.Get(domain.KindLending, a.ID)
	require.ErrorIs(t, err, domain.ErrAgreementNotFound)
}

func TestStorePartialPaymentTransition(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(20000),
		Date:   domain.NewDate(2026, time.February, 1),
	})
	require.NoError(t, err)

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPartiallyPaid, detail.Status)
	require.True(t, detail.TotalSettled.Equal(decimal.NewFromInt(20000)))
	require.True(t, detail.Remaining.Equal(decimal.NewFromInt(30000)))
	require.Len(t, detail.Events, 1)
}

func TestStoreLendingPartialStatus(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindLending, domain.AgreementInput{
		Counterparty: "Sunita",
		Principal:    decimal.NewFromInt(10000),
		StartDate:    domain.NewDate(2026, time.March, 1),
	})
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindLending, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(2500),
		Date:   domain.NewDate(2026, time.March, 10),
	})
	require.NoError(t, err)

	detail, err := s.Get(domain.KindLending, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPartiallyReceived, detail.Status)
}

func TestStoreFullSettlementCloses(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(50000),
		Date:   domain.NewDate(2026, time.April, 1),
	})
	require.NoError(t, err)

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, detail.Status)
	require.NotNil(t, detail.ClosedAt)
	require.True(t, detail.Remaining.IsZero())
}

func TestStoreCloseFlagClosesEarly(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount:         decimal.NewFromInt(10000),
		Date:           domain.NewDate(2026, time.April, 1),
		CloseAgreement: true,
	})
	require.NoError(t, err)

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, detail.Status)
	require.True(t, detail.Remaining.Equal(decimal.NewFromInt(40000)))
}

func TestStoreEventOnClosedAgreement(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.CloseAgreement(domain.KindBorrowing, a.ID)
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(1000),
		Date:   domain.NewDate(2026, time.May, 1),
	})
	require.ErrorIs(t, err, domain.ErrAgreementClosed)
}

func TestStoreReopenRestoresStatus(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	// Fully settled, auto-closed.
	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(50000),
		Date:   domain.NewDate(2026, time.April, 1),
	})
	require.NoError(t, err)

	reopened, err := s.Reopen(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPartiallyPaid, reopened.Status)
	require.Nil(t, reopened.ClosedAt)
	require.True(t, reopened.Principal.Equal(decimal.NewFromInt(50000)))

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Len(t, detail.Events, 1)
}

func TestStoreReopenRequiresClosed(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.Reopen(domain.KindBorrowing, a.ID)
	require.ErrorIs(t, err, domain.ErrAgreementNotClosed)
}

func TestStoreDeleteEventRecomputes(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	e, err := s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(50000),
		Date:   domain.NewDate(2026, time.April, 1),
	})
	require.NoError(t, err)

	// Auto-closed by full settlement; deleting the event reverts that.
	require.NoError(t, s.DeleteEvent(domain.KindBorrowing, a.ID, e.ID))

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOpen, detail.Status)
	require.True(t, detail.Remaining.Equal(decimal.NewFromInt(50000)))
	require.Empty(t, detail.Events)
}

func TestStoreDeleteCascades(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
			Amount: decimal.NewFromInt(1000),
			Date:   domain.NewDate(2026, time.April, 1+i),
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(domain.KindBorrowing, a.ID))

	_, err = s.Get(domain.KindBorrowing, a.ID)
	require.ErrorIs(t, err, domain.ErrAgreementNotFound)
	require.Empty(t, s.List(domain.KindBorrowing, domain.ListFilter{}))
}

func TestStoreListFilters(t *testing.T) {
	s := NewStore()

	first, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	in := borrowingInput()
	in.Counterparty = "Sunita Traders"
	second, err := s.Create(domain.KindBorrowing, in)
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, second.ID, domain.EventInput{
		Amount: decimal.NewFromInt(100),
		Date:   domain.NewDate(2026, time.April, 1),
	})
	require.NoError(t, err)

	open := s.List(domain.KindBorrowing, domain.ListFilter{Status: domain.StatusOpen})
	require.Len(t, open, 1)
	require.Equal(t, first.ID, open[0].ID)

	byName := s.List(domain.KindBorrowing, domain.ListFilter{Counterparty: "sunita"})
	require.Len(t, byName, 1)
	require.Equal(t, second.ID, byName[0].ID)
}

func TestStoreUpdatePrincipalRecomputes(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	_, err = s.AddEvent(domain.KindBorrowing, a.ID, domain.EventInput{
		Amount: decimal.NewFromInt(20000),
		Date:   domain.NewDate(2026, time.February, 1),
	})
	require.NoError(t, err)

	in := borrowingInput()
	in.Principal = decimal.NewFromInt(20000)
	updated, err := s.Update(domain.KindBorrowing, a.ID, in)
	require.NoError(t, err)

	// Lowering the principal to the settled total closes the agreement.
	require.Equal(t, domain.StatusClosed, updated.Status)
	require.True(t, updated.Remaining.IsZero())
}

func TestStoreUpdateKeepsExplicitClose(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	// Closed early, with the full principal still outstanding.
	closed, err := s.CloseAgreement(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)

	in := borrowingInput()
	in.Notes = "written off"
	updated, err := s.Update(domain.KindBorrowing, a.ID, in)
	require.NoError(t, err)

	require.Equal(t, domain.StatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	require.Equal(t, "written off", updated.Notes)
	require.True(t, updated.Remaining.Equal(decimal.NewFromInt(50000)))
}

func TestStoreOverrideAggregates(t *testing.T) {
	s := NewStore()
	a, err := s.Create(domain.KindBorrowing, borrowingInput())
	require.NoError(t, err)

	s.OverrideAggregates(a.ID, decimal.NewFromInt(12000), decimal.NewFromInt(38250))

	detail, err := s.Get(domain.KindBorrowing, a.ID)
	require.NoError(t, err)
	require.True(t, detail.TotalSettled.Equal(decimal.NewFromInt(12000)))
	require.True(t, detail.Remaining.Equal(decimal.NewFromInt(38250)))
	require.Equal(t, domain.StatusPartiallyPaid, detail.Status)
}
