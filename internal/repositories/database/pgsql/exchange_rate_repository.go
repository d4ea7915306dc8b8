package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	"github.com/shopfx/currency-service/internal/models"
	"github.com/shopfx/currency-service/internal/utils/mapping"
)

// PgxExchangeRateRepository implements the exchange rate repository ports
// using pgxpool. Lookups are memoized per (pair, date) for the lifetime of
// the repository instance; rate rows are append-only so a cached hit never
// goes stale.
type PgxExchangeRateRepository struct {
	BaseRepository

	cacheMu   sync.RWMutex
	rateCache map[string]domain.ExchangeRate
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
		rateCache:      make(map[string]domain.ExchangeRate),
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

func rateCacheKey(pair string, dateEffective time.Time) string {
	return pair + "|" + dateEffective.Format("2006-01-02")
}

// FindRatePair retrieves the earliest stored rate for the pair dated on or
// after the given effective date. A miss returns (nil, nil).
func (r *PgxExchangeRateRepository) FindRatePair(ctx context.Context, pair string, dateEffective time.Time) (*domain.ExchangeRate, error) {
	key := rateCacheKey(pair, dateEffective)

	r.cacheMu.RLock()
	if cached, ok := r.rateCache[key]; ok {
		r.cacheMu.RUnlock()
		return &cached, nil
	}
	r.cacheMu.RUnlock()

	query := `
		SELECT exchange_rate_id, source_currency_code, target_currency_code, pair,
			date_effective, buy, sell, middle, created_at, last_updated_at
		FROM exchange_rates
		WHERE pair = $1 AND date_effective >= $2
		ORDER BY date_effective ASC
		LIMIT 1;
	`
	var modelRate models.ExchangeRate
	var buy, sell, middle decimal.NullDecimal
	err := r.Pool.QueryRow(ctx, query, pair, dateEffective).Scan(
		&modelRate.ExchangeRateID,
		&modelRate.SourceCurrencyCode,
		&modelRate.TargetCurrencyCode,
		&modelRate.Pair,
		&modelRate.DateEffective,
		&buy,
		&sell,
		&middle,
		&modelRate.CreatedAt,
		&modelRate.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find rate for pair %s: %w", pair, err)
	}

	if buy.Valid {
		modelRate.Buy = &buy.Decimal
	}
	if sell.Valid {
		modelRate.Sell = &sell.Decimal
	}
	if middle.Valid {
		modelRate.Middle = &middle.Decimal
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)

	r.cacheMu.Lock()
	r.rateCache[key] = domainRate
	r.cacheMu.Unlock()

	return &domainRate, nil
}

const insertRateQuery = `
	INSERT INTO exchange_rates (exchange_rate_id, source_currency_code, target_currency_code,
		pair, date_effective, buy, sell, middle, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

func rateInsertArgs(modelRate models.ExchangeRate) []any {
	return []any{
		modelRate.ExchangeRateID,
		modelRate.SourceCurrencyCode,
		modelRate.TargetCurrencyCode,
		modelRate.Pair,
		modelRate.DateEffective,
		modelRate.Buy,
		modelRate.Sell,
		modelRate.Middle,
		modelRate.CreatedAt,
		modelRate.LastUpdatedAt,
	}
}

// SaveExchangeRate persists a new exchange rate row.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)
	if _, err := r.Pool.Exec(ctx, insertRateQuery, rateInsertArgs(modelRate)...); err != nil {
		return fmt.Errorf("failed to save exchange rate %s: %w", modelRate.Pair, err)
	}
	return nil
}

// SaveExchangeRates persists a batch of rate rows in one transaction.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	for _, rate := range rates {
		modelRate := mapping.ToModelExchangeRate(rate)
		if _, err := tx.Exec(ctx, insertRateQuery, rateInsertArgs(modelRate)...); err != nil {
			_ = r.Rollback(ctx, tx)
			return fmt.Errorf("failed to save exchange rate %s: %w", modelRate.Pair, err)
		}
	}

	return r.Commit(ctx, tx)
}
