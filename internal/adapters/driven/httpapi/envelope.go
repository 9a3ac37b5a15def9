package httpapi

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/admindesk/internal/core/domain"
)

// Keys whose presence marks a body as already wrapped by the backend.
var envelopeKeys = []string{"success", "data", "error"}

var emptyObject = json.RawMessage(`{}`)

// ParseEnvelope normalizes a response body.
//
// Precedence:
//  1. A JSON object carrying success, data or error is passed through as
//     ShapeWrapped. A missing or non-boolean success is filled from status.
//  2. Any other body on a 2xx status is wrapped whole as data (ShapeBare).
//  3. Any other body on a non-2xx status becomes the error value (ShapeFailure).
//
// A body that is not valid JSON is treated as {}.
func ParseEnvelope(status int, body []byte) *domain.Envelope {
	ok := status >= 200 && status < 300
	env := &domain.Envelope{Status: status}

	raw := json.RawMessage(bytes.TrimSpace(body))
	if len(raw) == 0 || !json.Valid(raw) {
		raw = emptyObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Arrays and scalars cannot carry envelope keys.
		fields = nil
	}
	env.Message = stringField(fields, "message")

	if isWrapped(fields) {
		env.Shape = domain.ShapeWrapped
		env.Success = ok
		if v, present := fields["success"]; present {
			var success bool
			if err := json.Unmarshal(v, &success); err == nil {
				env.Success = success
			}
		}
		env.Data = nonNull(fields["data"])
		env.Error = nonNull(fields["error"])
		env.Pagination = nonNull(fields["pagination"])
		return env
	}

	if ok {
		env.Shape = domain.ShapeBare
		env.Success = true
		env.Data = raw
		return env
	}

	env.Shape = domain.ShapeFailure
	env.Success = false
	env.Error = raw
	return env
}

func isWrapped(fields map[string]json.RawMessage) bool {
	for _, key := range envelopeKeys {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

func stringField(fields map[string]json.RawMessage, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func nonNull(v json.RawMessage) json.RawMessage {
	if len(v) == 0 || string(v) == "null" {
		return nil
	}
	return v
}
