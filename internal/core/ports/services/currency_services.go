package services

import (
	"context"

	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/dto"
)

// CurrencyReaderSvc defines read operations for the currency registry
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies, main first.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// GetMainCurrency returns the single designated main currency. When the
	// main flag is missing or ambiguous the registry repairs itself before
	// returning, so this call may have a write side effect.
	GetMainCurrency(ctx context.Context) (*domain.Currency, error)

	// GetCurrencyByLocale resolves the default currency for a locale,
	// assigning the locale to the resolved currency when it had none.
	GetCurrencyByLocale(ctx context.Context, locale string) (*domain.Currency, error)

	// ResolveCurrencyRef resolves a currency-or-code reference to a
	// concrete currency entity.
	ResolveCurrencyRef(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for the currency registry
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)

	// SetMainCurrency atomically makes the referenced currency the single main.
	SetMainCurrency(ctx context.Context, ref domain.CurrencyRef) error
}

// CurrencySvcFacade combines all currency registry service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
