package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// envelope is the server's uniform response wrapper
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp,omitempty"`
	Path       string          `json:"path,omitempty"`
}

// unwrap extracts the payload from a response body. The platform wraps
// payloads as {statusCode, message, data}, but some endpoints return the
// payload bare; both shapes must yield the same record.
func unwrap(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Data) > 0 && string(env.Data) != "null" {
			return env.Data
		}
	}
	return body
}

// Decimal is a numeric field the server may serialize as either a JSON number
// or a quoted string ("19.99"). Monetary amounts and quantities use it.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return fmt.Errorf("invalid numeric string: %w", err)
		}
		if unquoted == "" {
			*d = 0
			return nil
		}
		value, err := strconv.ParseFloat(unquoted, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", unquoted, err)
		}
		*d = Decimal(value)
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", s, err)
	}
	*d = Decimal(value)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

// Float64 returns the plain numeric value
func (d Decimal) Float64() float64 {
	return float64(d)
}
