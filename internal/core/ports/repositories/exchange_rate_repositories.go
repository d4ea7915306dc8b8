package repositories

import (
	"context"
	"time"

	"github.com/shopfx/currency-service/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRatePair retrieves the earliest stored rate for the pair dated on
	// or after the given effective date. A miss is not an error: the result
	// is (nil, nil) and the caller branches on presence.
	FindRatePair(ctx context.Context, pair string, dateEffective time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
// Rate storage is append-only; there is no update or delete path.
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate row.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// SaveExchangeRates persists a batch of rate rows in one transaction.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
