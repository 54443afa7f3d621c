package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two symmetric ledger resources. A borrowing tracks
// money owed to a counterparty, a lending tracks money owed by one.
type Kind string

const (
	KindBorrowing Kind = "borrowing"
	KindLending   Kind = "lending"
)

// PartialStatus returns the partial-settlement status used by this kind.
func (k Kind) PartialStatus() Status {
	if k == KindLending {
		return StatusPartiallyReceived
	}
	return StatusPartiallyPaid
}

// Status is the server-derived lifecycle state of an agreement. The client
// never computes it; it is always taken from the last server response.
type Status string

const (
	StatusOpen              Status = "open"
	StatusPartiallyPaid     Status = "partially_paid"
	StatusPartiallyReceived Status = "partially_received"
	StatusClosed            Status = "closed"
)

// Closed reports whether the agreement is settled or explicitly closed.
func (s Status) Closed() bool {
	return s == StatusClosed
}

// Partial reports whether some but not all of the principal is settled.
func (s Status) Partial() bool {
	return s == StatusPartiallyPaid || s == StatusPartiallyReceived
}

// InterestType describes how the server accrues interest on an agreement.
type InterestType string

const (
	InterestNone     InterestType = "none"
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

// Valid reports whether t is one of the recognized interest types.
func (t InterestType) Valid() bool {
	switch t {
	case InterestNone, InterestSimple, InterestCompound:
		return true
	}
	return false
}

// Agreement is a borrowing or lending record. Aggregate fields
// (TotalSettled, Remaining, Status) are computed by the finance service and
// must never be recomputed locally for authoritative display.
type Agreement struct {
	ID           string
	Kind         Kind
	Counterparty string
	Contact      string
	Principal    decimal.Decimal
	Currency     string
	InterestRate decimal.Decimal
	InterestType InterestType
	StartDate    Date
	DueDate      *Date
	Purpose      string
	Notes        string

	Status       Status
	TotalSettled decimal.Decimal
	Remaining    decimal.Decimal

	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayRemaining returns the remaining amount clamped at zero. The raw
// Remaining value is kept as the server sent it; only presentation clamps.
func (a *Agreement) DisplayRemaining() decimal.Decimal {
	if a.Remaining.IsNegative() {
		return decimal.Zero
	}
	return a.Remaining
}

// Overdue reports whether the due date has passed and the agreement is not
// closed.
func (a *Agreement) Overdue(today Date) bool {
	if a.DueDate == nil || a.Status.Closed() {
		return false
	}
	return a.DueDate.Before(today)
}

// AgreementDetail is an agreement with its settlement events, as returned by
// the detail endpoint.
type AgreementDetail struct {
	Agreement

	Events []Event
}

// AgreementInput is the client-supplied portion of an agreement, used for
// both create and update.
type AgreementInput struct {
	Counterparty string
	Contact      string
	Principal    decimal.Decimal
	Currency     string
	InterestRate decimal.Decimal
	InterestType InterestType
	StartDate    Date
	DueDate      *Date
	Purpose      string
	Notes        string
}

// ListFilter narrows a list request server-side.
type ListFilter struct {
	Status       Status
	Counterparty string
}
