package timeutil

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
)

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision, the same
// shape as JavaScript's Date.prototype.toISOString.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
// Log timestamps use it.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// Time wraps time.Time so API payloads always carry "2024-01-15T10:30:00.000Z"
// regardless of the wire format (JSON or CBOR).
type Time struct {
	time.Time
}

// String formats t as RFC3339Millis in UTC.
func (t Time) String() string {
	return t.UTC().Format(RFC3339Millis)
}

// MarshalJSON implements json.Marshaler with fixed millisecond precision.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts RFC 3339 variants. JSON null leaves t untouched.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return t.parse(s)
}

// MarshalCBOR encodes t as a CBOR text string in the same format as JSON.
func (t Time) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(t.String())
}

// UnmarshalCBOR decodes a CBOR text string produced by MarshalCBOR.
func (t *Time) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}

// Schema documents Time as an OpenAPI date-time string.
func (Time) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeString,
		Format:      "date-time",
		Description: "RFC 3339 UTC timestamp with millisecond precision",
		Examples:    []any{"2024-01-15T10:30:00.000Z"},
	}
}

func (t *Time) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// NewTime creates a Time from a standard time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}
