package rest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// fallbackMessage is used when no message can be extracted from a response.
const fallbackMessage = "An error occurred"

// RequestError is any non-2xx HTTP response, carrying a human-readable
// message extracted from the response body. The caller is responsible for
// user notification.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError is a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fallbackMessage
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newRequestError builds a RequestError from a response body.
func newRequestError(status int, body []byte) *RequestError {
	return &RequestError{StatusCode: status, Message: messageFromBody(body)}
}

type errorEnvelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// messageFromBody extracts a user-facing message from an error response.
// Resolution order: structured multi-field validation detail (array of
// {loc, msg} joined as "field: message"), then a detail string, then a
// message string, then the generic fallback.
func messageFromBody(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallbackMessage
	}

	if len(envelope.Detail) > 0 {
		var items []detailItem
		if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				switch {
				case len(item.Loc) > 0 && item.Msg != "":
					field := fmt.Sprintf("%v", item.Loc[len(item.Loc)-1])
					parts = append(parts, field+": "+item.Msg)
				case item.Msg != "":
					parts = append(parts, item.Msg)
				default:
					parts = append(parts, "Validation error")
				}
			}
			return strings.Join(parts, ", ")
		}

		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail != "" {
			return detail
		}
	}

	if envelope.Message != "" {
		return envelope.Message
	}

	return fallbackMessage
}
