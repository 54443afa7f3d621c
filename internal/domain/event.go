package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a repayment (borrowings) or collection (lendings) applied against
// an agreement. Events are owned by their agreement; deleting the agreement
// deletes them.
type Event struct {
	ID              string
	AgreementID     string
	Amount          decimal.Decimal
	Date            Date
	PaymentMethod   string
	ReferenceNumber string
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EventInput is the client-supplied portion of an event. CloseAgreement is a
// write-only request flag asking the server to close the parent after
// recording the event; it is not a stored field.
type EventInput struct {
	Amount          decimal.Decimal
	Date            Date
	PaymentMethod   string
	ReferenceNumber string
	Note            string
	CloseAgreement  bool
}
