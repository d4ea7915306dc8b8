package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	"github.com/shopfx/currency-service/internal/dto"
	"github.com/shopfx/currency-service/internal/middleware"
	"github.com/shopfx/currency-service/internal/utils"
)

// LocaleToCurrency is the static fallback table mapping a normalized locale
// to its default currency code.
var LocaleToCurrency = map[string]string{
	"cs": "CZK",
	"sk": "EUR",
	"en": "EUR",
	"de": "EUR",
}

// CurrencyService is the currency registry. The full currency list is
// cached in memory for the lifetime of the service instance and invalidated
// only by mutations going through this service, never by external writes.
type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade

	mu    sync.RWMutex
	cache []domain.Currency
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

// ListCurrencies returns all currencies, main currency first, then
// insertion order. The first call loads the list from the repository;
// subsequent calls serve the in-memory copy.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	cached := s.cache
	s.mu.RUnlock()
	if cached != nil {
		return append([]domain.Currency(nil), cached...), nil
	}

	list, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if list == nil {
		list = []domain.Currency{}
	}

	s.mu.Lock()
	s.cache = list
	s.mu.Unlock()
	return append([]domain.Currency(nil), list...), nil
}

// GetCurrencyByCode retrieves a currency by its normalized code from the
// cached registry.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code, err := domain.NormalizeCode(currencyCode)
	if err != nil {
		return nil, err
	}
	list, err := s.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CurrencyCode == code {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: currency %q does not exist", apperrors.ErrNotFound, code)
}

// ResolveCurrencyRef resolves a currency-or-code reference once at the
// service boundary.
func (s *CurrencyService) ResolveCurrencyRef(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	if ref.Currency != nil {
		return ref.Currency, nil
	}
	return s.GetCurrencyByCode(ctx, ref.Code)
}

// GetMainCurrency returns the single flagged-main currency. A registry with
// zero or multiple main flags is repaired first, so this call may persist a
// repair as a side effect.
func (s *CurrencyService) GetMainCurrency(ctx context.Context) (*domain.Currency, error) {
	list, err := s.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	var main *domain.Currency
	ambiguous := false
	for i := range list {
		if !list[i].Main {
			continue
		}
		if main == nil {
			main = &list[i]
		} else {
			ambiguous = true
			break
		}
	}
	if main != nil && !ambiguous {
		return main, nil
	}
	return s.repairAndReturnMain(ctx, list)
}

// repairAndReturnMain restores the exactly-one-main invariant. The scan
// keeps the first main-flagged currency and demotes the rest; with no main
// at all the first currency is promoted; an empty registry gets a default
// USD created as main. All flag changes land in one batched write.
func (s *CurrencyService) repairAndReturnMain(ctx context.Context, list []domain.Currency) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var main, first *domain.Currency
	demoted := 0
	for i := range list {
		if first == nil {
			first = &list[i]
		}
		if list[i].Main {
			if main == nil {
				main = &list[i]
			} else {
				demoted++
			}
		}
	}

	switch {
	case main != nil:
		if demoted == 0 {
			return main, nil
		}
		logger.Warn("Repairing ambiguous main currency flags",
			slog.String("kept", main.CurrencyCode), slog.Int("demoted", demoted))
		if err := s.currencyRepo.ReplaceMainCurrency(ctx, main.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to repair main currency: %w", err)
		}
		s.invalidateCache()
		return main, nil

	case first != nil:
		logger.Warn("No main currency flagged, promoting first",
			slog.String("promoted", first.CurrencyCode))
		if err := s.currencyRepo.ReplaceMainCurrency(ctx, first.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to promote main currency: %w", err)
		}
		s.invalidateCache()
		promoted := *first
		promoted.Main = true
		return &promoted, nil

	default:
		logger.Warn("Empty currency registry, creating default main currency")
		currency, err := domain.NewCurrency("USD", "$")
		if err != nil {
			return nil, err
		}
		locale := "en"
		currency.Name = "US Dollar"
		currency.Locale = &locale
		currency.Main = true
		now := time.Now()
		currency.CreatedAt = now
		currency.LastUpdatedAt = now
		if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
			return nil, fmt.Errorf("failed to create default main currency: %w", err)
		}
		s.invalidateCache()
		return &currency, nil
	}
}

// GetCurrencyByLocale resolves the default currency for a locale: first a
// currency already carrying that locale, then the static locale table. The
// resolved currency adopts the locale when it had none.
func (s *CurrencyService) GetCurrencyByLocale(ctx context.Context, locale string) (*domain.Currency, error) {
	locale = utils.NormalizeLocale(locale)
	list, err := s.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Locale != nil && *list[i].Locale == locale {
			return &list[i], nil
		}
	}

	code, ok := LocaleToCurrency[locale]
	if !ok {
		return nil, fmt.Errorf("%w: currency for locale %q does not exist", apperrors.ErrNotFound, locale)
	}

	currency, err := s.GetCurrencyByCode(ctx, code)
	if err == nil {
		if err := s.assignLocale(ctx, currency, locale); err != nil {
			return nil, err
		}
		return currency, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// The table's currency is not registered; fall back to the main
	// currency and claim the locale only if it has none yet.
	main, err := s.GetMainCurrency(ctx)
	if err != nil {
		return nil, err
	}
	if main.Locale == nil {
		if err := s.assignLocale(ctx, main, locale); err != nil {
			return nil, err
		}
	}
	return main, nil
}

func (s *CurrencyService) assignLocale(ctx context.Context, currency *domain.Currency, locale string) error {
	if err := s.currencyRepo.UpdateCurrencyLocale(ctx, currency.CurrencyCode, locale); err != nil {
		return fmt.Errorf("failed to assign locale %q to currency %q: %w", locale, currency.CurrencyCode, err)
	}
	currency.Locale = &locale
	s.invalidateCache()
	return nil
}

// CreateCurrency constructs, persists and returns a new currency.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	currency, err := domain.NewCurrency(req.CurrencyCode, req.Symbol)
	if err != nil {
		return nil, err
	}
	currency.Name = req.Name
	if req.DisplaySchema != "" {
		currency.DisplaySchema = req.DisplaySchema
	}
	if req.Locale != "" {
		locale := utils.NormalizeLocale(req.Locale)
		currency.Locale = &locale
	}
	now := time.Now()
	currency.CreatedAt = now
	currency.LastUpdatedAt = now

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: currency %q already exists", apperrors.ErrDuplicate, currency.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.invalidateCache()
	middleware.GetLoggerFromCtx(ctx).Info("Currency created",
		slog.String("currency_code", currency.CurrencyCode))
	return &currency, nil
}

// SetMainCurrency atomically clears main on all other currencies and sets
// it on the target, as a single logical transaction.
func (s *CurrencyService) SetMainCurrency(ctx context.Context, ref domain.CurrencyRef) error {
	currency, err := s.ResolveCurrencyRef(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.currencyRepo.ReplaceMainCurrency(ctx, currency.CurrencyCode); err != nil {
		return fmt.Errorf("failed to set main currency %q: %w", currency.CurrencyCode, err)
	}
	s.invalidateCache()
	middleware.GetLoggerFromCtx(ctx).Info("Main currency changed",
		slog.String("currency_code", currency.CurrencyCode))
	return nil
}

func (s *CurrencyService) invalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}
