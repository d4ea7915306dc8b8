package services

import (
	"context"
	"time"

	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/dto"
)

// CurrencyResolverSvc binds a request context (explicit currency, session
// preference, locale) to an effective currency.
type CurrencyResolverSvc interface {
	// ResolveCurrency picks the acting currency: explicit beats the session
	// preference, which beats the locale default. First match wins.
	ResolveCurrency(ctx context.Context, explicit *domain.Currency, sessionID, locale string) (*domain.Currency, error)

	// SetCurrency stores (currency != nil) or clears (currency == nil) the
	// session's preferred currency code. Side effect only; the currency
	// record itself is untouched.
	SetCurrency(ctx context.Context, sessionID string, currency *domain.Currency) error
}

// RateUpdaterSvc seeds default currencies and refreshes all pairs.
type RateUpdaterSvc interface {
	// UpdateAll fetches and persists rates for every active, non-rate-locked
	// pair for the given date (nil means today), seeding the default
	// currency set when the registry is empty.
	UpdateAll(ctx context.Context, date *time.Time) (*dto.RateUpdateSummary, error)
}
