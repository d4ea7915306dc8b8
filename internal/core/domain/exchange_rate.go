package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/apperrors"
)

// ExchangeRate stores a fetched conversion rate between two currencies for
// a specific banking day. Rows are append-only: a rate is persisted once and
// never updated, only superseded by a newer-dated row for the same pair.
type ExchangeRate struct {
	ExchangeRateID     string           `json:"exchangeRateID"` // Primary Key (UUID)
	SourceCurrencyCode string           `json:"sourceCurrencyCode"`
	TargetCurrencyCode string           `json:"targetCurrencyCode"`
	Pair               string           `json:"pair"` // 6-char lookup key, source+target
	DateEffective      time.Time        `json:"dateEffective"`
	Buy                *decimal.Decimal `json:"buy,omitempty"`
	Sell               *decimal.Decimal `json:"sell,omitempty"`
	Middle             *decimal.Decimal `json:"middle,omitempty"`
	AuditFields
}

// FormatPair builds the 6-character pair key from two currency codes.
func FormatPair(source, target string) (string, error) {
	sourceCode, err := NormalizeCode(source)
	if err != nil {
		return "", err
	}
	targetCode, err := NormalizeCode(target)
	if err != nil {
		return "", err
	}
	return sourceCode + targetCode, nil
}

// NewExchangeRate constructs a rate for the given pair. Buy/sell/middle are
// set separately so negative components can be rejected per field.
func NewExchangeRate(source, target string) (ExchangeRate, error) {
	pair, err := FormatPair(source, target)
	if err != nil {
		return ExchangeRate{}, err
	}
	return ExchangeRate{
		SourceCurrencyCode: pair[:3],
		TargetCurrencyCode: pair[3:],
		Pair:               pair,
	}, nil
}

// SetBuy assigns the buy component. Negative values are rejected.
func (r *ExchangeRate) SetBuy(value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: buy value %s for %q can not be negative", apperrors.ErrValidation, value, r.Pair)
	}
	r.Buy = &value
	return nil
}

// SetSell assigns the sell component. Negative values are rejected.
func (r *ExchangeRate) SetSell(value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: sell value %s for %q can not be negative", apperrors.ErrValidation, value, r.Pair)
	}
	r.Sell = &value
	return nil
}

// SetMiddle assigns the middle component. Negative values are rejected.
func (r *ExchangeRate) SetMiddle(value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: middle value %s for %q can not be negative", apperrors.ErrValidation, value, r.Pair)
	}
	r.Middle = &value
	return nil
}

// Value resolves the usable rate: the middle rate when present, otherwise
// the buy/sell average. A rate that resolves to exactly zero is an
// invariant violation, not a valid rate.
func (r ExchangeRate) Value() (decimal.Decimal, error) {
	var value decimal.Decimal
	if r.Middle != nil {
		value = *r.Middle
	} else {
		var buy, sell decimal.Decimal
		if r.Buy != nil {
			buy = *r.Buy
		}
		if r.Sell != nil {
			sell = *r.Sell
		}
		value = buy.Add(sell).Div(decimal.NewFromInt(2))
	}
	if value.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: exchange rate can not be resolved for %q and date %q",
			apperrors.ErrLogic, r.Pair, r.DateEffective.Format("2006-01-02"))
	}
	return value, nil
}

// ConvertAmount divides a price by the resolved rate value and returns the
// amount truncated to 2 decimal places, together with the value used.
func (r ExchangeRate) ConvertAmount(price decimal.Decimal) (string, decimal.Decimal, error) {
	value, err := r.Value()
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return price.Div(value).Truncate(2).StringFixed(2), value, nil
}

// Price couples an amount with the currency it is denominated in. When a
// Price is converted, its currency becomes the conversion source.
type Price struct {
	Value        decimal.Decimal `json:"value"`
	CurrencyCode string          `json:"currencyCode"`
}

// CurrencyRef is a tagged reference to a currency: either a resolved entity
// or a bare code to be resolved once at the service boundary.
type CurrencyRef struct {
	Currency *Currency
	Code     string
}

// RefOf wraps an already-resolved currency.
func RefOf(c Currency) CurrencyRef {
	return CurrencyRef{Currency: &c}
}

// RefCode wraps a currency code for later resolution.
func RefCode(code string) CurrencyRef {
	return CurrencyRef{Code: code}
}
