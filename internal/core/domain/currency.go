package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopfx/currency-service/internal/apperrors"
)

// codePrefixPattern matches a 3-letter code prefix. Longer inputs are
// accepted on purpose and truncated to their prefix, so "USDX" normalizes
// to "USD" instead of failing; see NormalizeCode.
var codePrefixPattern = regexp.MustCompile(`^[A-Z]{3}`)

// Currency represents a supported shop currency. CurrencyCode is the
// primary identity; exchange rates reference currencies by code, never by
// row id, so two rows with the same code must not coexist.
type Currency struct {
	CurrencyCode      string  `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol            string  `json:"symbol"`       // e.g., "$"
	Name              string  `json:"name"`         // e.g., "US Dollar"
	Main              bool    `json:"main"`         // exactly one true across the set
	Active            bool    `json:"active"`
	RateLock          bool    `json:"rateLock"` // excluded as a fetch target during bulk updates
	Locale            *string `json:"locale,omitempty"`
	ThousandSeparator string  `json:"thousandSeparator"`
	DecimalSeparator  string  `json:"decimalSeparator"`
	DecimalPrecision  int     `json:"decimalPrecision"`
	DisplaySchema     string  `json:"displaySchema"` // template with %NUM% and %SYMBOL%
	AuditFields
}

// NormalizeCode trims and upper-cases a currency code and validates that it
// starts with exactly 3 ASCII letters. Inputs longer than 3 characters are
// deliberately tolerated and truncated to the 3-letter prefix rather than
// rejected, for compatibility with callers that pass decorated codes.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: currency code is required", apperrors.ErrValidation)
	}
	if !codePrefixPattern.MatchString(code) {
		return "", fmt.Errorf("%w: currency code must be 3 letters, for example \"USD\", but %q given", apperrors.ErrValidation, code)
	}
	return code[:3], nil
}

// NewCurrency constructs a currency with the shop's display defaults.
func NewCurrency(code, symbol string) (Currency, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	return Currency{
		CurrencyCode:      normalized,
		Symbol:            symbol,
		Active:            true,
		ThousandSeparator: " ",
		DecimalSeparator:  ",",
		DecimalPrecision:  2,
		DisplaySchema:     "%NUM% %SYMBOL%",
	}, nil
}
