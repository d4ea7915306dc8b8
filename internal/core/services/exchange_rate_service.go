package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/middleware"
)

// ExchangeRateService orchestrates rate resolution: registry lookup, store
// lookup, fetch-on-miss with persistence, and price conversion.
type ExchangeRateService struct {
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencySvcFacade
	fetcher         portssvc.RateFetcherSvc
	now             func() time.Time
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	currencyService portssvc.CurrencySvcFacade,
	fetcher portssvc.RateFetcherSvc,
) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:        rateRepo,
		currencyService: currencyService,
		fetcher:         fetcher,
		now:             time.Now,
	}
}

// GetRate resolves an applicable exchange rate for the pair and date.
// Same-currency pairs short-circuit to a synthetic 1:1 rate without
// touching the store. Otherwise the earliest stored rate dated on or after
// the effective date wins; a miss triggers a fetch that is persisted before
// returning.
//
// Concurrent callers racing on the same uncached pair may persist duplicate
// rows; that is accepted, reads always take the earliest qualifying row.
func (s *ExchangeRateService) GetRate(ctx context.Context, source, target domain.CurrencyRef, date time.Time) (*domain.ExchangeRate, error) {
	sourceCurrency, err := s.currencyService.ResolveCurrencyRef(ctx, source)
	if err != nil {
		return nil, err
	}
	targetCurrency, err := s.currencyService.ResolveCurrencyRef(ctx, target)
	if err != nil {
		return nil, err
	}

	if sourceCurrency.CurrencyCode == targetCurrency.CurrencyCode {
		rate, err := domain.NewExchangeRate(sourceCurrency.CurrencyCode, targetCurrency.CurrencyCode)
		if err != nil {
			return nil, err
		}
		one := decimal.NewFromInt(1)
		rate.Middle = &one
		rate.DateEffective = startOfDay(date)
		return &rate, nil
	}

	effective, err := s.fetcher.ResolveDate(date)
	if err != nil {
		return nil, err
	}
	pair, err := domain.FormatPair(sourceCurrency.CurrencyCode, targetCurrency.CurrencyCode)
	if err != nil {
		return nil, err
	}

	stored, err := s.rateRepo.FindRatePair(ctx, pair, effective)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rate %q: %w", pair, err)
	}
	if stored != nil {
		return stored, nil
	}

	fetched, err := s.fetcher.FetchRate(ctx, *sourceCurrency, *targetCurrency, effective)
	if err != nil {
		return nil, err
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, *fetched); err != nil {
		return nil, fmt.Errorf("failed to persist fetched rate %q: %w", pair, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Fetched and persisted exchange rate",
		slog.String("pair", pair), slog.String("date", effective.Format("2006-01-02")))
	return fetched, nil
}

// GetRateToday resolves the rate for today's banking day.
func (s *ExchangeRateService) GetRateToday(ctx context.Context, source, target domain.CurrencyRef) (*domain.ExchangeRate, error) {
	return s.GetRate(ctx, source, target, s.now())
}

// Convert divides a price by the resolved rate value using exact decimal
// arithmetic and returns the result truncated to 2 decimal places. A nil
// date means today.
func (s *ExchangeRateService) Convert(ctx context.Context, price decimal.Decimal, source, target domain.CurrencyRef, date *time.Time) (string, error) {
	when := s.now()
	if date != nil {
		when = *date
	}

	rate, err := s.GetRate(ctx, source, target, when)
	if err != nil {
		return "", err
	}
	result, _, err := rate.ConvertAmount(price)
	return result, err
}

// ConvertPrice converts a price carrying its own currency; the embedded
// currency becomes the conversion source.
func (s *ExchangeRateService) ConvertPrice(ctx context.Context, price domain.Price, target domain.CurrencyRef, date *time.Time) (string, error) {
	return s.Convert(ctx, price.Value, domain.RefCode(price.CurrencyCode), target, date)
}
