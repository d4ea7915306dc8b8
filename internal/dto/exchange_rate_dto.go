package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID     string           `json:"exchangeRateID,omitempty"`
	SourceCurrencyCode string           `json:"sourceCurrencyCode"`
	TargetCurrencyCode string           `json:"targetCurrencyCode"`
	Pair               string           `json:"pair"`
	DateEffective      string           `json:"dateEffective"`
	Buy                *decimal.Decimal `json:"buy,omitempty"`
	Sell               *decimal.Decimal `json:"sell,omitempty"`
	Middle             *decimal.Decimal `json:"middle,omitempty"`
	Value              decimal.Decimal  `json:"value"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO.
// The resolved value must be supplied by the caller since resolving can fail.
func ToExchangeRateResponse(rate *domain.ExchangeRate, value decimal.Decimal) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:     rate.ExchangeRateID,
		SourceCurrencyCode: rate.SourceCurrencyCode,
		TargetCurrencyCode: rate.TargetCurrencyCode,
		Pair:               rate.Pair,
		DateEffective:      rate.DateEffective.Format("2006-01-02"),
		Buy:                rate.Buy,
		Sell:               rate.Sell,
		Middle:             rate.Middle,
		Value:              value,
	}
}

// RateUpdateSummary reports the outcome of a bulk rate refresh.
type RateUpdateSummary struct {
	Date    string   `json:"date"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"` // pairs whose fetch failed
}

// NewRateUpdateSummary builds a summary for the given effective date.
func NewRateUpdateSummary(date time.Time) *RateUpdateSummary {
	return &RateUpdateSummary{Date: date.Format("2006-01-02")}
}
