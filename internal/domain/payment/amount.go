package payment

import (
	"fmt"
	"strconv"
	"strings"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/shopspring/decimal"
)

// Amount is a monetary amount in the currency's minor unit.
type Amount struct {
	Minor    int64    `json:"minor" validate:"gt=0"`
	Currency Currency `json:"currency" validate:"required,len=3"`
}

// NewAmount validates the currency and builds an Amount.
func NewAmount(minor int64, code string) (Amount, error) {
	cur, err := ParseCurrency(code)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Minor: minor, Currency: cur}, nil
}

// Decimal returns the amount in the major unit.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Minor, -int32(a.Currency.MinorUnits()))
}

// MinorString renders the integer minor-unit value, e.g. "500".
func (a Amount) MinorString() string {
	return strconv.FormatInt(a.Minor, 10)
}

// BaseString renders the major-unit value with the currency's scale, e.g. "5.00".
func (a Amount) BaseString() string {
	return a.Decimal().StringFixed(int32(a.Currency.MinorUnits()))
}

// Encode renders the amount in the representation a connector asked for.
func (a Amount) Encode(unit CurrencyUnit) string {
	if unit == CurrencyUnitBase {
		return a.BaseString()
	}
	return a.MinorString()
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.BaseString(), a.Currency)
}

// Validate checks that the amount is valid.
func (a Amount) Validate() error {
	if a.Minor <= 0 {
		return domainErrors.NewValidationError("amount", "must be greater than 0")
	}
	return a.Currency.Validate()
}

// ParseAmount is the inverse of Encode. A base-unit value with more decimal
// places than the currency allows is rejected rather than rounded.
func ParseAmount(s string, unit CurrencyUnit, cur Currency) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}

	if unit != CurrencyUnitBase {
		minor, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Amount{}, fmt.Errorf("parse minor amount %q: %w", s, err)
		}
		return Amount{Minor: minor, Currency: cur}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse base amount %q: %w", s, err)
	}
	shifted := d.Shift(int32(cur.MinorUnits()))
	if !shifted.IsInteger() {
		return Amount{}, fmt.Errorf("amount %q has more precision than %s allows", s, cur)
	}
	if !shifted.BigInt().IsInt64() {
		return Amount{}, fmt.Errorf("amount %q overflows", s)
	}
	return Amount{Minor: shifted.IntPart(), Currency: cur}, nil
}
