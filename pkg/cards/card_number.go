// Package cards validates and masks primary account numbers.
package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	minPANLength = 12
	maxPANLength = 19
)

var (
	ErrInvalidLength = errors.New("card number has invalid length")
	ErrNotNumeric    = errors.New("card number must contain only digits")
	ErrLuhnCheck     = errors.New("card number failed luhn check")
)

// CardNumber is a validated PAN. It prints and encodes to JSON as
// first6 + mask + last4; the full number is only reachable through Expose.
type CardNumber struct {
	number string
}

// NewCardNumber strips spaces and dashes, then validates length, digits and
// the Luhn check digit.
func NewCardNumber(raw string) (CardNumber, error) {
	n := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if len(n) < minPANLength || len(n) > maxPANLength {
		return CardNumber{}, fmt.Errorf("%w: %d digits", ErrInvalidLength, len(n))
	}
	if !isDigits(n) {
		return CardNumber{}, ErrNotNumeric
	}
	if !luhnValid(n) {
		return CardNumber{}, ErrLuhnCheck
	}
	return CardNumber{number: n}, nil
}

// MustCardNumber is NewCardNumber for literals in tests and fixtures.
func MustCardNumber(raw string) CardNumber {
	c, err := NewCardNumber(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CardNumber) Expose() string { return c.number }

// BIN returns the first six digits.
func (c CardNumber) BIN() string {
	if len(c.number) < 6 {
		return ""
	}
	return c.number[:6]
}

// Last4 returns the last four digits.
func (c CardNumber) Last4() string {
	if len(c.number) < 4 {
		return ""
	}
	return c.number[len(c.number)-4:]
}

// IsZero reports whether c was never set.
func (c CardNumber) IsZero() bool { return c.number == "" }

func (c CardNumber) String() string {
	if c.number == "" {
		return ""
	}
	return c.BIN() + strings.Repeat("*", len(c.number)-10) + c.Last4()
}

func (c CardNumber) GoString() string { return c.String() }

func (c CardNumber) Format(f fmt.State, _ rune) {
	fmt.Fprint(f, c.String())
}

func (c CardNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CardNumber) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewCardNumber(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func luhnValid(n string) bool {
	sum, dbl := 0, false
	for i := len(n) - 1; i >= 0; i-- {
		d := int(n[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum%10 == 0
}
