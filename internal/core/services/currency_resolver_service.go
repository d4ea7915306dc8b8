package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/middleware"
)

// CurrencyResolverService maps a request context to an effective currency
// in three tiers: explicit caller choice, session preference, locale
// default. First match wins.
type CurrencyResolverService struct {
	sessions        portsrepo.CurrencySessionStore
	currencyService portssvc.CurrencySvcFacade
}

// NewCurrencyResolverService creates a new CurrencyResolverService.
func NewCurrencyResolverService(
	sessions portsrepo.CurrencySessionStore,
	currencyService portssvc.CurrencySvcFacade,
) *CurrencyResolverService {
	return &CurrencyResolverService{
		sessions:        sessions,
		currencyService: currencyService,
	}
}

// ResolveCurrency picks the acting currency for a visitor.
func (s *CurrencyResolverService) ResolveCurrency(ctx context.Context, explicit *domain.Currency, sessionID, locale string) (*domain.Currency, error) {
	if explicit != nil {
		return explicit, nil
	}

	if sessionID != "" {
		code, err := s.sessions.GetSessionCurrency(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to read session currency: %w", err)
		}
		if code != "" {
			currency, err := s.currencyService.GetCurrencyByCode(ctx, code)
			if err == nil {
				return currency, nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			// A stale session value referencing a removed currency falls
			// through to the locale tier.
			middleware.GetLoggerFromCtx(ctx).Warn("Session references unknown currency",
				slog.String("currency_code", code))
		}
	}

	if locale != "" {
		currency, err := s.currencyService.GetCurrencyByLocale(ctx, locale)
		if err == nil {
			return currency, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: expected currency does not exist", apperrors.ErrNotFound)
}

// SetCurrency stores or clears the session's preferred currency code. The
// currency record itself is untouched.
func (s *CurrencyResolverService) SetCurrency(ctx context.Context, sessionID string, currency *domain.Currency) error {
	if currency == nil {
		return s.sessions.ClearSessionCurrency(ctx, sessionID)
	}
	return s.sessions.SetSessionCurrency(ctx, sessionID, currency.CurrencyCode)
}
