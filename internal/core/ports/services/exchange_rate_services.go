package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// RateFetcherSvc resolves banking-day dates and pulls rates from the
// external rate API.
type RateFetcherSvc interface {
	// ResolveDate maps a requested date onto the banking day a rate is
	// actually published for. Dates from tomorrow onwards fail validation;
	// today before the publish cutoff rolls back to yesterday.
	ResolveDate(requested time.Time) (time.Time, error)

	// FetchRate calls the external rate API for the pair and resolved date.
	FetchRate(ctx context.Context, source, target domain.Currency, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateReaderSvc defines rate resolution operations
type ExchangeRateReaderSvc interface {
	// GetRate resolves an applicable exchange rate for the pair and date,
	// fetching and persisting on a store miss.
	GetRate(ctx context.Context, source, target domain.CurrencyRef, date time.Time) (*domain.ExchangeRate, error)

	// GetRateToday is a convenience wrapper for GetRate with today's date.
	GetRateToday(ctx context.Context, source, target domain.CurrencyRef) (*domain.ExchangeRate, error)
}

// ExchangeRateConvertorSvc defines price conversion operations
type ExchangeRateConvertorSvc interface {
	// Convert divides a price by the resolved rate and returns the result
	// truncated to 2 decimal places. A nil date means today.
	Convert(ctx context.Context, price decimal.Decimal, source, target domain.CurrencyRef, date *time.Time) (string, error)

	// ConvertPrice converts a price that carries its own currency; the
	// embedded currency becomes the conversion source.
	ConvertPrice(ctx context.Context, price domain.Price, target domain.CurrencyRef, date *time.Time) (string, error)
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateConvertorSvc
}
