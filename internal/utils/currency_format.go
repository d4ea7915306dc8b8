package utils

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// FormatOptions overrides individual display attributes of a currency when
// formatting a price. Nil fields fall back to the currency's own settings.
type FormatOptions struct {
	DecimalPrecision  *int
	DecimalSeparator  *string
	ThousandSeparator *string
	Schema            *string
	Symbol            *string
	HTMLCompatible    bool
}

// FormatPrice renders an amount using the currency's display schema, where
// %NUM% is the grouped number and %SYMBOL% the currency symbol.
// Example: 1234.5 with CZK ("%NUM% %SYMBOL%") returns "1 234,50 Kč".
func FormatPrice(value decimal.Decimal, currency domain.Currency, opts FormatOptions) string {
	precision := currency.DecimalPrecision
	if opts.DecimalPrecision != nil {
		precision = *opts.DecimalPrecision
	}
	decimalSep := currency.DecimalSeparator
	if opts.DecimalSeparator != nil {
		decimalSep = *opts.DecimalSeparator
	}
	thousandSep := currency.ThousandSeparator
	if opts.ThousandSeparator != nil {
		thousandSep = *opts.ThousandSeparator
	}
	schema := currency.DisplaySchema
	if opts.Schema != nil {
		schema = *opts.Schema
	}
	symbol := currency.Symbol
	if opts.Symbol != nil {
		symbol = *opts.Symbol
	}

	number := FormatNumber(value, precision, decimalSep, thousandSep)
	out := strings.ReplaceAll(schema, "%NUM%", number)
	out = strings.ReplaceAll(out, "%SYMBOL%", symbol)
	if opts.HTMLCompatible {
		out = strings.ReplaceAll(out, " ", "&nbsp;")
	}
	return out
}

// FormatNumber rounds a value to the given precision and renders it with
// the given decimal and thousand separators.
func FormatNumber(value decimal.Decimal, precision int, decimalSep, thousandSep string) string {
	negative := value.IsNegative()
	rounded := value.Abs().Round(int32(precision))

	fixed := rounded.StringFixed(int32(precision))
	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(thousandSep)
		}
		grouped.WriteRune(digit)
	}

	out := grouped.String()
	if fracPart != "" {
		out += decimalSep + fracPart
	}
	if negative {
		out = "-" + out
	}
	return out
}
