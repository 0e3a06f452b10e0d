// Package masking wraps sensitive values so they cannot be printed or logged
// unmasked by accident. The wrapped value is only reachable through Expose.
package masking

import (
	"encoding/json"
	"fmt"
)

// Placeholder is what every masked value prints as.
const Placeholder = "*** masked ***"

// Secret holds a sensitive value. fmt verbs, String and JSON encoding all
// render the placeholder, so zerolog's Interface is safe too. Wire payloads
// carry Expose() explicitly. Decoding JSON stores the real value.
type Secret[T any] struct {
	value T
}

// NewSecret wraps v.
func NewSecret[T any](v T) Secret[T] {
	return Secret[T]{value: v}
}

// Expose returns the wrapped value. Call it only where the value leaves the
// process (a request header or body).
func (s Secret[T]) Expose() T {
	return s.value
}

func (s Secret[T]) String() string {
	return Placeholder
}

func (s Secret[T]) GoString() string {
	return Placeholder
}

// Format keeps %v, %+v, %#v and %s from bypassing String.
func (s Secret[T]) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, Placeholder)
}

func (s Secret[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(Placeholder)
}

func (s *Secret[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.value)
}

// Maskable is a string that is either plain or masked. Header values use it
// so request logs can be written without leaking credentials.
type Maskable struct {
	value  string
	masked bool
}

// Plain returns a value that is safe to log as is.
func Plain(v string) Maskable {
	return Maskable{value: v}
}

// Masked returns a value that logs as the placeholder.
func Masked(v string) Maskable {
	return Maskable{value: v, masked: true}
}

func (m Maskable) IsMasked() bool { return m.masked }

// Expose returns the underlying value regardless of masking.
func (m Maskable) Expose() string { return m.value }

func (m Maskable) String() string {
	if m.masked {
		return Placeholder
	}
	return m.value
}

func (m Maskable) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
