package dto

import (
	"time"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// CreateCurrencyRequest defines the data needed to create a new currency.
// Code normalization tolerates longer inputs, so length is validated in the
// domain layer rather than by a len=3 binding tag.
type CreateCurrencyRequest struct {
	CurrencyCode  string `json:"currencyCode" binding:"required"`
	Symbol        string `json:"symbol" binding:"required"`
	Name          string `json:"name"`
	Locale        string `json:"locale"`
	DisplaySchema string `json:"displaySchema"`
}

// SetMainCurrencyRequest selects the currency to flag as main.
type SetMainCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required"`
}

// SetSessionCurrencyRequest stores a visitor's preferred currency.
type SetSessionCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode      string    `json:"currencyCode"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Main              bool      `json:"main"`
	Active            bool      `json:"active"`
	RateLock          bool      `json:"rateLock"`
	Locale            *string   `json:"locale,omitempty"`
	ThousandSeparator string    `json:"thousandSeparator"`
	DecimalSeparator  string    `json:"decimalSeparator"`
	DecimalPrecision  int       `json:"decimalPrecision"`
	DisplaySchema     string    `json:"displaySchema"`
	CreatedAt         time.Time `json:"createdAt"`
	LastUpdatedAt     time.Time `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:      curr.CurrencyCode,
		Symbol:            curr.Symbol,
		Name:              curr.Name,
		Main:              curr.Main,
		Active:            curr.Active,
		RateLock:          curr.RateLock,
		Locale:            curr.Locale,
		ThousandSeparator: curr.ThousandSeparator,
		DecimalSeparator:  curr.DecimalSeparator,
		DecimalPrecision:  curr.DecimalPrecision,
		DisplaySchema:     curr.DisplaySchema,
		CreatedAt:         curr.CreatedAt,
		LastUpdatedAt:     curr.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}
