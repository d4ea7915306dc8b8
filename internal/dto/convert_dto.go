package dto

import "github.com/shopspring/decimal"

// ConvertRequest defines the input for a price conversion. Source is
// optional when the caller relies on session/locale resolution.
type ConvertRequest struct {
	Price              decimal.Decimal `json:"price" binding:"required"`
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode" binding:"required"`
	Date               string          `json:"date"` // YYYY-MM-DD, empty means today
}

// ConvertResponse carries the converted amount and the rate used.
type ConvertResponse struct {
	Result             string          `json:"result"`
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
	DateEffective      string          `json:"dateEffective"`
}
