package payment

import (
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Currency is an upper-case ISO 4217 code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	KWD Currency = "KWD"
)

// ParseCurrency normalizes and validates an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", domainErrors.NewValidationError("currency", "must be a 3-letter ISO code")
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "", domainErrors.NewValidationError("currency", fmt.Sprintf("unknown ISO 4217 code %q", code))
	}
	return Currency(code), nil
}

// MinorUnits returns the number of decimal places of the currency's minor
// unit: 2 for USD, 0 for JPY, 3 for KWD.
func (c Currency) MinorUnits() int {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

func (c Currency) Validate() error {
	_, err := ParseCurrency(string(c))
	return err
}

func (c Currency) String() string { return string(c) }

func (c *Currency) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCurrency(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CountryAlpha2 is an ISO 3166-1 alpha-2 country code.
type CountryAlpha2 string

// ParseCountry validates a two-letter country code.
func ParseCountry(code string) (CountryAlpha2, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", domainErrors.NewValidationError("country", "must be a 2-letter ISO code")
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", domainErrors.NewValidationError("country", fmt.Sprintf("unknown ISO 3166 code %q", code))
	}
	return CountryAlpha2(code), nil
}

// UnmarshalJSON leaves c empty for an empty string.
func (c *CountryAlpha2) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseCountry(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
