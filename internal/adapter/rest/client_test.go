package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/udhaar/internal/domain"
)

func borrowingInput() domain.AgreementInput {
	return domain.AgreementInput{
		Counterparty: "Sunita",
		Principal:    decimal.NewFromInt(50000),
		Currency:     "INR",
		InterestType: domain.InterestNone,
		StartDate:    domain.NewDate(2025, time.March, 1),
	}
}

func TestClient_Create_SendsBorrowingFields(t *testing.T) {
	var captured map[string]any
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/borrowings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":               "01ABC",
			"lender_name":      "Sunita",
			"principal_amount": "50000",
			"currency":         "INR",
			"interest_rate":    "0",
			"borrowed_date":    "2025-03-01",
			"status":           "open",
			"total_repaid":     "0",
			"remaining_amount": "50000",
		})
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	a, err := client.Create(context.Background(), borrowingInput())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests), "create must issue exactly one write request")
	assert.Equal(t, "01ABC", a.ID)
	assert.Equal(t, "Sunita", a.Counterparty)
	assert.Equal(t, domain.StatusOpen, a.Status)
	assert.True(t, a.Remaining.Equal(decimal.NewFromInt(50000)))

	// wire payload uses the borrowing role names
	assert.Equal(t, "Sunita", captured["lender_name"])
	assert.Equal(t, "2025-03-01", captured["borrowed_date"])
	assert.NotContains(t, captured, "borrower_name")
	assert.NotContains(t, captured, "lent_date")
}

func TestClient_Create_LendingFieldNames(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lendings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"id":               "01DEF",
			"borrower_name":    "Sunita",
			"principal_amount": "50000",
			"lent_date":        "2025-03-01",
			"status":           "open",
			"total_received":   "0",
			"remaining_amount": "50000",
		})
	}))
	defer server.Close()

	client := NewLendings(server.URL, server.Client())

	a, err := client.Create(context.Background(), borrowingInput())
	require.NoError(t, err)

	assert.Equal(t, domain.KindLending, a.Kind)
	assert.Equal(t, "Sunita", captured["borrower_name"])
	assert.Equal(t, "2025-03-01", captured["lent_date"])
	assert.NotContains(t, captured, "lender_name")
}

func TestClient_Create_ValidationSkipsNetwork(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	in := borrowingInput()
	in.Principal = decimal.Zero

	_, err := client.Create(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests), "invalid payload must be rejected before any network call")
}

func TestClient_Get_ReturnsEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/borrowings/01ABC", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":               "01ABC",
			"lender_name":      "Sunita",
			"principal_amount": "50000",
			"status":           "partially_paid",
			"total_repaid":     "20000",
			"remaining_amount": "30000",
			"borrowed_date":    "2025-03-01",
			"repayments": []map[string]any{
				{"id": "ev1", "amount": "20000", "repayment_date": "2025-04-01", "payment_method": "UPI"},
			},
		})
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	detail, err := client.Get(context.Background(), "01ABC")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPartiallyPaid, detail.Status)
	assert.True(t, detail.TotalSettled.Equal(decimal.NewFromInt(20000)))
	assert.True(t, detail.Remaining.Equal(decimal.NewFromInt(30000)))
	require.Len(t, detail.Events, 1)
	assert.Equal(t, "ev1", detail.Events[0].ID)
	assert.Equal(t, "01ABC", detail.Events[0].AgreementID)
	assert.Equal(t, "UPI", detail.Events[0].PaymentMethod)
}

func TestClient_Get_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing id", body: `{"lender_name":"x","principal_amount":"100"}`},
		{name: "non-positive principal", body: `{"id":"01A","lender_name":"x","principal_amount":"0"}`},
		{name: "missing counterparty", body: `{"id":"01A","principal_amount":"100"}`},
		{name: "not JSON", body: `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewBorrowings(server.URL, server.Client())

			_, err := client.Get(context.Background(), "01A")

			var rerr *RequestError
			require.ErrorAs(t, err, &rerr, "malformed response must surface as RequestError")
		})
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Borrowing not found"}`))
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	_, err := client.Get(context.Background(), "missing")

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
	assert.Equal(t, "Borrowing not found", rerr.Message)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewBorrowings(server.URL, http.DefaultClient)

	_, err := client.Get(context.Background(), "01A")

	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.NotNil(t, errors.Unwrap(nerr))
}

func TestClient_CreateEvent_CloseFlag(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/borrowings/01ABC/repayments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{
			"id": "ev9", "amount": "30000", "repayment_date": "2025-05-01",
		})
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	e, err := client.CreateEvent(context.Background(), "01ABC", domain.EventInput{
		Amount:         decimal.NewFromInt(30000),
		Date:           domain.NewDate(2025, time.May, 1),
		CloseAgreement: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "ev9", e.ID)
	assert.Equal(t, true, captured["close_borrowing"])
	assert.NotContains(t, captured, "close_lending")
}

func TestClient_DeleteEvent(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewLendings(server.URL, server.Client())

	require.NoError(t, client.DeleteEvent(context.Background(), "01ABC", "ev1"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/lendings/01ABC/collections/ev1", path)
}

func TestClient_List_Filters(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	_, err := client.List(context.Background(), domain.ListFilter{
		Status:       domain.StatusOpen,
		Counterparty: "Sunita",
	})
	require.NoError(t, err)
	assert.Equal(t, "lender=Sunita&status=open", query)
}

func TestClient_Get_Idempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":               "01ABC",
			"lender_name":      "Sunita",
			"principal_amount": "50000",
			"borrowed_date":    "2025-03-01",
			"status":           "partially_paid",
			"total_repaid":     "20000",
			"remaining_amount": "30000",
		})
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	first, err := client.Get(context.Background(), "01ABC")
	require.NoError(t, err)
	second, err := client.Get(context.Background(), "01ABC")
	require.NoError(t, err)

	assert.True(t, first.TotalSettled.Equal(second.TotalSettled))
	assert.True(t, first.Remaining.Equal(second.Remaining))
	assert.Equal(t, first.Status, second.Status)
}

func TestClient_List_OmittedRemainingIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{{
			"id":               "01ABC",
			"lender_name":      "Sunita",
			"principal_amount": "50000",
			"interest_rate":    "0",
			"borrowed_date":    "2025-03-01",
			"status":           "open",
			"total_repaid":     "20000",
		}})
	}))
	defer server.Close()

	client := NewBorrowings(server.URL, server.Client())

	agreements, err := client.List(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, agreements, 1)

	// The server owns remaining_amount; when it is absent the client must
	// not substitute principal minus total_repaid.
	assert.True(t, agreements[0].Remaining.IsZero(),
		"omitted remaining_amount must surface as zero, got %s", agreements[0].Remaining)
}
