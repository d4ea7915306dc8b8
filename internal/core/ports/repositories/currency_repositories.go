package repositories

import (
	"context"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its normalized 3-letter code.
	// Returns apperrors.ErrNotFound when no row matches.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies, main currency first, then
	// insertion order.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency. Returns apperrors.ErrDuplicate
	// when the code already exists.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// ReplaceMainCurrency atomically clears the main flag on every currency
	// and sets it on the given code, in a single transaction. At no point is
	// a state with zero or multiple mains observable from outside it.
	ReplaceMainCurrency(ctx context.Context, currencyCode string) error

	// UpdateCurrencyLocale assigns a normalized locale to a currency.
	UpdateCurrencyLocale(ctx context.Context, currencyCode, locale string) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}

// CurrencyRepositoryWithTx extends CurrencyRepositoryFacade with transaction capabilities
type CurrencyRepositoryWithTx interface {
	CurrencyRepositoryFacade
	TransactionManager
}
