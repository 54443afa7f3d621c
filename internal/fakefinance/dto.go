package fakefinance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/udhaar/internal/domain"
)

// resourceNames maps a kind to its wire naming. Mirrors the documented
// contract: borrowings speak of lenders and repayments, lendings of
// borrowers and collections.
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

type agreementPayload struct {
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

	Repayments  []eventPayload `json:"repayments,omitempty"`
	Collections []eventPayload `json:"collections,omitempty"`
}

type eventPayload struct {
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

func (p agreementPayload) toInput(kind domain.Kind) domain.AgreementInput {
	in := domain.AgreementInput{
		Principal:    p.PrincipalAmount,
		Currency:     p.Currency,
		InterestRate: p.InterestRate,
		InterestType: domain.InterestType(p.InterestType),
		DueDate:      p.DueDate,
		Purpose:      p.Purpose,
		Notes:        p.Notes,
	}

	if kind == domain.KindLending {
		in.Counterparty = p.BorrowerName
		in.Contact = p.BorrowerContact
		if p.LentDate != nil {
			in.StartDate = *p.LentDate
		}
	} else {
		in.Counterparty = p.LenderName
		in.Contact = p.LenderContact
		if p.BorrowedDate != nil {
			in.StartDate = *p.BorrowedDate
		}
	}

	return in
}

func (p eventPayload) toInput(kind domain.Kind) domain.EventInput {
	in := domain.EventInput{
		Amount:          p.Amount,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Note:            p.Note,
	}

	if kind == domain.KindLending {
		if p.CollectionDate != nil {
			in.Date = *p.CollectionDate
		}
		in.CloseAgreement = p.CloseLending
	} else {
		if p.RepaymentDate != nil {
			in.Date = *p.RepaymentDate
		}
		in.CloseAgreement = p.CloseBorrowing
	}

	return in
}

// toAgreementPayload renders an agreement. Aggregates and status are always
// present in responses; the server owns them.
func toAgreementPayload(a domain.Agreement) agreementPayload {
	p := agreementPayload{
		ID:              a.ID,
		PrincipalAmount: a.Principal,
		Currency:        a.Currency,
		InterestRate:    a.InterestRate,
		InterestType:    string(a.InterestType),
		DueDate:         a.DueDate,
		Purpose:         a.Purpose,
		Notes:           a.Notes,
		Status:          string(a.Status),
		RemainingAmount: &a.Remaining,
		ClosedAt:        a.ClosedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	start := a.StartDate
	if a.Kind == domain.KindLending {
		p.BorrowerName = a.Counterparty
		p.BorrowerContact = a.Contact
		p.LentDate = &start
		p.TotalReceived = &a.TotalSettled
	} else {
		p.LenderName = a.Counterparty
		p.LenderContact = a.Contact
		p.BorrowedDate = &start
		p.TotalRepaid = &a.TotalSettled
	}

	return p
}

func toDetailPayload(d domain.AgreementDetail) agreementPayload {
	p := toAgreementPayload(d.Agreement)
	events := make([]eventPayload, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, toEventPayload(d.Kind, e))
	}
	if d.Kind == domain.KindLending {
		p.Collections = events
	} else {
		p.Repayments = events
	}
	return p
}

func toEventPayload(kind domain.Kind, e domain.Event) eventPayload {
	p := eventPayload{
		ID:              e.ID,
		Amount:          e.Amount,
		PaymentMethod:   e.PaymentMethod,
		ReferenceNumber: e.ReferenceNumber,
		Note:            e.Note,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	date := e.Date
	if kind == domain.KindLending {
		p.CollectionDate = &date
	} else {
		p.RepaymentDate = &date
	}

	return p
}
