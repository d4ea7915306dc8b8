package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate represents a row in the exchange_rates table. Buy, sell and
// middle are nullable; at least one must resolve to a non-zero value.
type ExchangeRate struct {
	ExchangeRateID     string           `json:"exchangeRateID"` // Primary Key (UUID)
	SourceCurrencyCode string           `json:"sourceCurrencyCode"`
	TargetCurrencyCode string           `json:"targetCurrencyCode"`
	Pair               string           `json:"pair"`
	DateEffective      time.Time        `json:"dateEffective"`
	Buy                *decimal.Decimal `json:"buy"`
	Sell               *decimal.Decimal `json:"sell"`
	Middle             *decimal.Decimal `json:"middle"`
	AuditFields
}
