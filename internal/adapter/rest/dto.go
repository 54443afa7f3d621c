package rest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/udhaar/internal/domain"
)

// resourceNames maps a domain kind to its wire-level resource naming. The two
// resource sets are symmetric; only the role names differ.
type resourceNames struct {
	resource          string
	eventResource     string
	counterpartyParam string
}

var kindNames = map[domain.Kind]resourceNames{
	domain.KindBorrowing: {
		resource:          "borrowings",
		eventResource:     "repayments",
		counterpartyParam: "lender",
	},
	domain.KindLending: {
		resource:          "lendings",
		eventResource:     "collections",
		counterpartyParam: "borrower",
	},
}

// agreementWire is the JSON shape of an agreement. Borrowing and lending
// variants populate disjoint field subsets.
type agreementWire struct {
	ID string `json:"id,omitempty"`

	LenderName      string `json:"lender_name,omitempty"`
	LenderContact   string `json:"lender_contact,omitempty"`
	BorrowerName    string `json:"borrower_name,omitempty"`
	BorrowerContact string `json:"borrower_contact,omitempty"`

	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	Currency        string          `json:"currency,omitempty"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	InterestType    string          `json:"interest_type,omitempty"`

	BorrowedDate *domain.Date `json:"borrowed_date,omitempty"`
	LentDate     *domain.Date `json:"lent_date,omitempty"`
	DueDate      *domain.Date `json:"due_date,omitempty"`

	Purpose string `json:"purpose,omitempty"`
	Notes   string `json:"notes,omitempty"`

	Status          string           `json:"status,omitempty"`
	TotalRepaid     *decimal.Decimal `json:"total_repaid,omitempty"`
	TotalReceived   *decimal.Decimal `json:"total_received,omitempty"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount,omitempty"`

	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`

	Repayments  []eventWire `json:"repayments,omitempty"`
	Collections []eventWire `json:"collections,omitempty"`
}

// eventWire is the JSON shape of a repayment/collection. The close flag is a
// write-only request parameter.
type eventWire struct {
	ID string `json:"id,omitempty"`

	Amount decimal.Decimal `json:"amount"`

	RepaymentDate  *domain.Date `json:"repayment_date,omitempty"`
	CollectionDate *domain.Date `json:"collection_date,omitempty"`

	PaymentMethod   string `json:"payment_method,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Note            string `json:"note,omitempty"`

	CloseBorrowing bool `json:"close_borrowing,omitempty"`
	CloseLending   bool `json:"close_lending,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func agreementInputToWire(kind domain.Kind, in domain.AgreementInput) agreementWire {
	w := agreementWire{
		PrincipalAmount: in.Principal,
		Currency:        in.Currency,
		InterestRate:    in.InterestRate,
		InterestType:    string(in.InterestType),
		DueDate:         in.DueDate,
		Purpose:         in.Purpose,
		Notes:           in.Notes,
	}

	start := in.StartDate
	if kind == domain.KindLending {
		w.BorrowerName = in.Counterparty
		w.BorrowerContact = in.Contact
		w.LentDate = &start
	} else {
		w.LenderName = in.Counterparty
		w.LenderContact = in.Contact
		w.BorrowedDate = &start
	}

	return w
}

func eventInputToWire(kind domain.Kind, in domain.EventInput) eventWire {
	w := eventWire{
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Note:            in.Note,
	}

	date := in.Date
	if kind == domain.KindLending {
		w.CollectionDate = &date
		w.CloseLending = in.CloseAgreement
	} else {
		w.RepaymentDate = &date
		w.CloseBorrowing = in.CloseAgreement
	}

	return w
}

// agreementFromWire converts and schema-checks a decoded response. Malformed
// responses are rejected here rather than letting zero values leak into the
// view state.
func agreementFromWire(kind domain.Kind, w agreementWire) (*domain.Agreement, error) {
	if w.ID == "" {
		return nil, fmt.Errorf("response missing agreement id")
	}
	if !w.PrincipalAmount.IsPositive() {
		return nil, fmt.Errorf("response has non-positive principal for agreement %s", w.ID)
	}

	a := &domain.Agreement{
		ID:           w.ID,
		Kind:         kind,
		Principal:    w.PrincipalAmount,
		Currency:     w.Currency,
		InterestRate: w.InterestRate,
		InterestType: domain.InterestType(w.InterestType),
		DueDate:      w.DueDate,
		Purpose:      w.Purpose,
		Notes:        w.Notes,
		Status:       domain.Status(w.Status),
		ClosedAt:     w.ClosedAt,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}

	if kind == domain.KindLending {
		a.Counterparty = w.BorrowerName
		a.Contact = w.BorrowerContact
		if w.LentDate != nil {
			a.StartDate = *w.LentDate
		}
		if w.TotalReceived != nil {
			a.TotalSettled = *w.TotalReceived
		}
	} else {
		a.Counterparty = w.LenderName
		a.Contact = w.LenderContact
		if w.BorrowedDate != nil {
			a.StartDate = *w.BorrowedDate
		}
		if w.TotalRepaid != nil {
			a.TotalSettled = *w.TotalRepaid
		}
	}

	if a.Counterparty == "" {
		return nil, fmt.Errorf("response missing counterparty for agreement %s", w.ID)
	}

	if w.RemainingAmount != nil {
		a.Remaining = *w.RemainingAmount
	} else {
		// The server owns this aggregate; an omitted value is shown as
		// zero, never derived from the other fields.
		a.Remaining = decimal.Zero
	}

	return a, nil
}

func detailFromWire(kind domain.Kind, w agreementWire) (*domain.AgreementDetail, error) {
	a, err := agreementFromWire(kind, w)
	if err != nil {
		return nil, err
	}

	events := w.Repayments
	if kind == domain.KindLending {
		events = w.Collections
	}

	detail := &domain.AgreementDetail{Agreement: *a}
	for _, ew := range events {
		e, err := eventFromWire(kind, a.ID, ew)
		if err != nil {
			return nil, err
		}
		detail.Events = append(detail.Events, *e)
	}

	return detail, nil
}

func eventFromWire(kind domain.Kind, agreementID string, w eventWire) (*domain.Event, error) {
	if w.ID == "" {
		return nil, fmt.Errorf("response missing event id")
	}

	e := &domain.Event{
		ID:              w.ID,
		AgreementID:     agreementID,
		Amount:          w.Amount,
		PaymentMethod:   w.PaymentMethod,
		ReferenceNumber: w.ReferenceNumber,
		Note:            w.Note,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}

	if kind == domain.KindLending {
		if w.CollectionDate != nil {
			e.Date = *w.CollectionDate
		}
	} else {
		if w.RepaymentDate != nil {
			e.Date = *w.RepaymentDate
		}
	}

	return e, nil
}
