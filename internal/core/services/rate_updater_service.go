package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/dto"
	"github.com/shopfx/currency-service/internal/middleware"
)

// defaultCurrencies seeds an empty registry on the first bulk update. The
// first entry becomes the main currency.
var defaultCurrencies = []struct {
	code   string
	symbol string
	schema string
}{
	{"CZK", "Kč", "%NUM% %SYMBOL%"},
	{"EUR", "€", "%SYMBOL% %NUM%"},
	{"USD", "$", "%SYMBOL% %NUM%"},
	{"GBP", "£", "%NUM% %SYMBOL%"},
}

// RateUpdaterService seeds default currencies and refreshes all currency
// pairs for a given date. Currency reads and writes go through the registry
// service, never the repository, so the registry cache stays in sync with
// seeding.
type RateUpdaterService struct {
	currencyService portssvc.CurrencySvcFacade
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	fetcher         portssvc.RateFetcherSvc
	now             func() time.Time
}

// NewRateUpdaterService creates a new RateUpdaterService.
func NewRateUpdaterService(
	currencyService portssvc.CurrencySvcFacade,
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	fetcher portssvc.RateFetcherSvc,
) *RateUpdaterService {
	return &RateUpdaterService{
		currencyService: currencyService,
		rateRepo:        rateRepo,
		fetcher:         fetcher,
		now:             time.Now,
	}
}

// UpdateAll fetches and persists rates for every ordered pair of active
// currencies, skipping rate-locked targets and same-code pairs. Fetched
// rows are saved in one batch. Per-pair upstream failures are logged and
// reported but do not abort the rest of the refresh.
func (s *RateUpdaterService) UpdateAll(ctx context.Context, date *time.Time) (*dto.RateUpdateSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	when := s.now()
	if date != nil {
		when = *date
	}

	currencies, err := s.currencyService.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies for rate update: %w", err)
	}
	if len(currencies) == 0 {
		if err := s.seedDefaultCurrencies(ctx); err != nil {
			return nil, err
		}
		currencies, err = s.currencyService.ListCurrencies(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to reload currencies after seeding: %w", err)
		}
	}

	summary := dto.NewRateUpdateSummary(when)
	var batch []domain.ExchangeRate
	for _, source := range currencies {
		if !source.Active {
			continue
		}
		for _, target := range currencies {
			if !target.Active {
				continue
			}
			if target.RateLock || source.CurrencyCode == target.CurrencyCode {
				summary.Skipped++
				continue
			}
			rate, err := s.fetcher.FetchRate(ctx, source, target, when)
			if err != nil {
				pair := source.CurrencyCode + target.CurrencyCode
				logger.Warn("Rate fetch failed during bulk update",
					slog.String("pair", pair), slog.String("error", err.Error()))
				summary.Failed = append(summary.Failed, pair)
				continue
			}
			batch = append(batch, *rate)
		}
	}

	if len(batch) > 0 {
		if err := s.rateRepo.SaveExchangeRates(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to persist bulk rate update: %w", err)
		}
	}
	summary.Updated = len(batch)

	logger.Info("Bulk rate update finished",
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", len(summary.Failed)))
	return summary, nil
}

// seedDefaultCurrencies installs the default currency set through the
// registry service, so the registry cache never keeps serving a pre-seed
// view. The first entry is flagged main.
func (s *RateUpdaterService) seedDefaultCurrencies(ctx context.Context) error {
	for i, seed := range defaultCurrencies {
		currency, err := s.currencyService.CreateCurrency(ctx, dto.CreateCurrencyRequest{
			CurrencyCode:  seed.code,
			Symbol:        seed.symbol,
			DisplaySchema: seed.schema,
		})
		if err != nil {
			return fmt.Errorf("failed to seed currency %q: %w", seed.code, err)
		}
		if i == 0 {
			if err := s.currencyService.SetMainCurrency(ctx, domain.RefOf(*currency)); err != nil {
				return fmt.Errorf("failed to flag seeded currency %q as main: %w", seed.code, err)
			}
		}
	}
	middleware.GetLoggerFromCtx(ctx).Info("Seeded default currency configuration",
		slog.Int("count", len(defaultCurrencies)))
	return nil
}
