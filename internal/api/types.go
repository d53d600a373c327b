package api

import (
	"bytes"
	"encoding/json"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SuccessResponse acknowledges a delete.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	SchemaVersion int    `json:"schema_version"`
}

// Nullable carries an optional JSON value that may also be an explicit null.
// Set reports whether the field appeared at all; Valid whether it was non-null.
// Use it with the omitzero tag so unset fields are left out when encoding.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null returns a Nullable that encodes as an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) IsZero() bool { return !n.Set }

// Ptr returns the value, or nil for null or unset.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Valid = false
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
