package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/udhaar/internal/adapter/rest"
	"github.com/finbook/udhaar/internal/domain"
	"github.com/finbook/udhaar/internal/fakefinance"
)

// Env wires a fake finance server to real REST clients for integration
// tests. The server is torn down with the test.
type Env struct {
	Store      *fakefinance.Store
	Server     *httptest.Server
	Borrowings *rest.Client
	Lendings   *rest.Client
}

// NewEnv starts a fake finance server and returns clients bound to it.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	store := fakefinance.NewStore()
	server := httptest.NewServer(fakefinance.NewServer(fakefinance.ServerConfig{
		Store:  store,
		Logger: zerolog.Nop(),
	}))
	t.Cleanup(server.Close)

	httpClient := rest.NewHTTPClient(rest.StaticSession(""), 5*time.Second)

	return &Env{
		Store:      store,
		Server:     server,
		Borrowings: rest.NewBorrowings(server.URL, httpClient),
		Lendings:   rest.NewLendings(server.URL, httpClient),
	}
}

// BorrowingInput returns a valid borrowing input with the given principal.
func BorrowingInput(name string, principal int64) domain.AgreementInput {
	return domain.AgreementInput{
		Counterparty: name,
		Principal:    decimal.NewFromInt(principal),
		Currency:     "INR",
		StartDate:    domain.NewDate(2026, time.January, 15),
	}
}

// LendingInput returns a valid lending input with the given principal.
func LendingInput(name string, principal int64) domain.AgreementInput {
	return BorrowingInput(name, principal)
}

// EventOf returns a valid event input for the given amount.
func EventOf(amount int64) domain.EventInput {
	return domain.EventInput{
		Amount: decimal.NewFromInt(amount),
		Date:   domain.NewDate(2026, time.February, 1),
	}
}
