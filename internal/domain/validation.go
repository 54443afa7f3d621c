package domain

import (
	"strings"
)

// Validation constants
const (
	MaxCounterpartyLength = 255
	MaxFreeTextLength     = 2000
)

// Valid currency codes (ISO 4217, the subset the platform accepts)
var validCurrencies = map[string]bool{
	"INR": true, "USD": true, "EUR": true, "GBP": true,
	"JPY": true, "AUD": true, "CAD": true, "CHF": true,
	"SGD": true, "AED": true, "HKD": true, "NZD": true,
}

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is raised locally, before any network call, when required
// fields are absent or out of range. It is never sent to the server.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidCurrency reports whether code is an accepted ISO 4217 code.
func ValidCurrency(code string) bool {
	return validCurrencies[strings.ToUpper(strings.TrimSpace(code))]
}

// ValidateAgreementInput checks the required fields of an agreement payload.
func ValidateAgreementInput(in AgreementInput) error {
	verr := &ValidationError{}

	name := strings.TrimSpace(in.Counterparty)
	if name == "" {
		verr.add("counterparty", "name is required")
	} else if len(name) > MaxCounterpartyLength {
		verr.add("counterparty", "name is too long")
	}

	if !in.Principal.IsPositive() {
		verr.add("principal_amount", "must be greater than zero")
	}

	if in.Currency != "" && !ValidCurrency(in.Currency) {
		verr.add("currency", "unknown currency code")
	}

	if in.InterestRate.IsNegative() {
		verr.add("interest_rate", "must not be negative")
	}

	if in.InterestType != "" && !in.InterestType.Valid() {
		verr.add("interest_type", "must be none, simple or compound")
	}

	if in.StartDate.IsZero() {
		verr.add("agreement_date", "is required")
	}

	if in.DueDate != nil && !in.StartDate.IsZero() && in.DueDate.Before(in.StartDate) {
		verr.add("due_date", "must not precede the agreement date")
	}

	if len(in.Purpose) > MaxFreeTextLength {
		verr.add("purpose", "is too long")
	}
	if len(in.Notes) > MaxFreeTextLength {
		verr.add("notes", "is too long")
	}

	return verr.orNil()
}

// ValidateEventInput checks the required fields of a repayment/collection
// payload. The amount is not checked against the remaining balance; the
// server is authoritative there.
func ValidateEventInput(in EventInput) error {
	verr := &ValidationError{}

	if !in.Amount.IsPositive() {
		verr.add("amount", "must be greater than zero")
	}

	if in.Date.IsZero() {
		verr.add("event_date", "is required")
	}

	if len(in.Note) > MaxFreeTextLength {
		verr.add("note", "is too long")
	}

	return verr.orNil()
}
