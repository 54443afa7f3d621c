// Package rest is the ledger entity client: one method per REST action on
// the borrowing/lending resource and its nested repayment/collection
// sub-resource. Payloads are validated locally before any network call;
// failures surface as the three-way ValidationError / RequestError /
// NetworkError taxonomy. The client issues exactly one request per mutation
// and never retries; retry policy belongs to the transport.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/finbook/udhaar/internal/domain"
)

const maxErrorBody = 64 << 10

// Client talks to one resource set (borrowings or lendings) of the finance
// service.
type Client struct {
	http    *http.Client
	baseURL string
	kind    domain.Kind
	names   resourceNames
}

// NewBorrowings creates a client for the borrowings/repayments resource set.
func NewBorrowings(baseURL string, httpClient *http.Client) *Client {
	return newClient(baseURL, domain.KindBorrowing, httpClient)
}

// NewLendings creates a client for the lendings/collections resource set.
func NewLendings(baseURL string, httpClient *http.Client) *Client {
	return newClient(baseURL, domain.KindLending, httpClient)
}

func newClient(baseURL string, kind domain.Kind, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		kind:    kind,
		names:   kindNames[kind],
	}
}

// Kind returns the resource kind this client is bound to.
func (c *Client) Kind() domain.Kind {
	return c.kind
}

// List fetches agreement summaries, optionally narrowed server-side.
func (c *Client) List(ctx context.Context, filter domain.ListFilter) ([]domain.Agreement, error) {
	path := "/" + c.names.resource
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Counterparty != "" {
		query.Set(c.names.counterpartyParam, filter.Counterparty)
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var wires []agreementWire
	status, err := c.do(ctx, http.MethodGet, path, nil, &wires)
	if err != nil {
		return nil, err
	}

	agreements := make([]domain.Agreement, 0, len(wires))
	for _, w := range wires {
		a, err := agreementFromWire(c.kind, w)
		if err != nil {
			return nil, malformed(status, err)
		}
		agreements = append(agreements, *a)
	}

	return agreements, nil
}

// Get fetches one agreement with its events.
func (c *Client) Get(ctx context.Context, id string) (*domain.AgreementDetail, error) {
	var w agreementWire
	status, err := c.do(ctx, http.MethodGet, c.itemPath(id), nil, &w)
	if err != nil {
		return nil, err
	}

	detail, err := detailFromWire(c.kind, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return detail, nil
}

// Create records a new agreement. The payload is validated locally; invalid
// input is rejected without a network round-trip.
func (c *Client) Create(ctx context.Context, in domain.AgreementInput) (*domain.Agreement, error) {
	if err := domain.ValidateAgreementInput(in); err != nil {
		return nil, err
	}

	var w agreementWire
	status, err := c.do(ctx, http.MethodPost, "/"+c.names.resource, agreementInputToWire(c.kind, in), &w)
	if err != nil {
		return nil, err
	}

	a, err := agreementFromWire(c.kind, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return a, nil
}

// Update replaces the client-supplied fields of an agreement.
func (c *Client) Update(ctx context.Context, id string, in domain.AgreementInput) (*domain.Agreement, error) {
	if err := domain.ValidateAgreementInput(in); err != nil {
		return nil, err
	}

	var w agreementWire
	status, err := c.do(ctx, http.MethodPut, c.itemPath(id), agreementInputToWire(c.kind, in), &w)
	if err != nil {
		return nil, err
	}

	a, err := agreementFromWire(c.kind, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return a, nil
}

// Delete removes an agreement and, by composition, all of its events.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.itemPath(id), nil, nil)
	return err
}

// Close marks an agreement closed regardless of remaining amount.
func (c *Client) Close(ctx context.Context, id string) (*domain.Agreement, error) {
	return c.statusAction(ctx, id, "close")
}

// Reopen reverts an explicit close.
func (c *Client) Reopen(ctx context.Context, id string) (*domain.Agreement, error) {
	return c.statusAction(ctx, id, "reopen")
}

func (c *Client) statusAction(ctx context.Context, id, action string) (*domain.Agreement, error) {
	var w agreementWire
	status, err := c.do(ctx, http.MethodPost, c.itemPath(id)+"/"+action, nil, &w)
	if err != nil {
		return nil, err
	}

	a, err := agreementFromWire(c.kind, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return a, nil
}

// CreateEvent records a repayment/collection against an agreement. The
// parent's aggregates change server-side; callers must refetch the parent
// rather than adjusting totals locally.
func (c *Client) CreateEvent(ctx context.Context, agreementID string, in domain.EventInput) (*domain.Event, error) {
	if err := domain.ValidateEventInput(in); err != nil {
		return nil, err
	}

	var w eventWire
	status, err := c.do(ctx, http.MethodPost, c.eventsPath(agreementID), eventInputToWire(c.kind, in), &w)
	if err != nil {
		return nil, err
	}

	e, err := eventFromWire(c.kind, agreementID, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return e, nil
}

// UpdateEvent amends a recorded event.
func (c *Client) UpdateEvent(ctx context.Context, agreementID, eventID string, in domain.EventInput) (*domain.Event, error) {
	if err := domain.ValidateEventInput(in); err != nil {
		return nil, err
	}

	var w eventWire
	status, err := c.do(ctx, http.MethodPut, c.eventsPath(agreementID)+"/"+url.PathEscape(eventID), eventInputToWire(c.kind, in), &w)
	if err != nil {
		return nil, err
	}

	e, err := eventFromWire(c.kind, agreementID, w)
	if err != nil {
		return nil, malformed(status, err)
	}

	return e, nil
}

// DeleteEvent removes a recorded event. The parent's aggregates are
// recomputed server-side.
func (c *Client) DeleteEvent(ctx context.Context, agreementID, eventID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.eventsPath(agreementID)+"/"+url.PathEscape(eventID), nil, nil)
	return err
}

func (c *Client) itemPath(id string) string {
	return "/" + c.names.resource + "/" + url.PathEscape(id)
}

func (c *Client) eventsPath(agreementID string) string {
	return c.itemPath(agreementID) + "/" + c.names.eventResource
}

// do issues one request. A transport failure becomes a NetworkError, any
// non-2xx response becomes a RequestError, and an undecodable 2xx body is
// reported as a RequestError as well.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, newRequestError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, malformed(resp.StatusCode, err)
		}
	}

	return resp.StatusCode, nil
}

func malformed(status int, err error) *RequestError {
	return &RequestError{
		StatusCode: status,
		Message:    fmt.Sprintf("malformed response: %v", err),
	}
}
