package domain

import (
	"encoding/json"
	"fmt"
)

// EnvelopeShape records which branch of response normalization produced an Envelope.
type EnvelopeShape int

const (
	// ShapeTransport means no response was received (network error, timeout, abort).
	ShapeTransport EnvelopeShape = iota
	// ShapeWrapped means the body already carried success, data or error and was passed through.
	ShapeWrapped
	// ShapeBare means a successful body without envelope keys was wrapped whole as data.
	ShapeBare
	// ShapeFailure means an unsuccessful body without envelope keys.
	ShapeFailure
)

// String returns a human-readable name for the shape.
func (s EnvelopeShape) String() string {
	switch s {
	case ShapeTransport:
		return "transport"
	case ShapeWrapped:
		return "wrapped"
	case ShapeBare:
		return "bare"
	case ShapeFailure:
		return "failure"
	default:
		return unknownDescription
	}
}

// Envelope is the single normalized shape of every backend response.
type Envelope struct {
	// Success is the backend's own flag, or the HTTP-ok flag when it is absent.
	Success bool `json:"success"`
	// Status is the HTTP status code. Zero for transport failures.
	Status int `json:"status,omitempty"`
	// Message is the backend message, or the transport error text.
	Message string `json:"message,omitempty"`
	// Data is the resource payload.
	Data json.RawMessage `json:"data,omitempty"`
	// Error is the backend error value, verbatim.
	Error json.RawMessage `json:"error,omitempty"`
	// Pagination is passed through untouched when the backend supplies it.
	Pagination json.RawMessage `json:"pagination,omitempty"`

	// Unauthenticated is set when the request ended with an unrecovered 401.
	Unauthenticated bool `json:"-"`
	// Shape records how the body was interpreted.
	Shape EnvelopeShape `json:"-"`
	// Cause is the transport error for ShapeTransport envelopes.
	Cause error `json:"-"`
}

// DecodeData unmarshals the envelope's data into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return fmt.Errorf("envelope has no data: %w", ErrNotFound)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding envelope data: %w", err)
	}
	return nil
}

// ErrorText returns a printable description of the failure, if any.
func (e *Envelope) ErrorText() string {
	if e.Success {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if len(e.Error) > 0 {
		var s string
		if err := json.Unmarshal(e.Error, &s); err == nil {
			return s
		}
		return string(e.Error)
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "request failed"
}
