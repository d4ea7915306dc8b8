package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	"github.com/shopfx/currency-service/internal/models"
	"github.com/shopfx/currency-service/internal/utils/mapping"
)

const pgUniqueViolation = "23505"

// PgxCurrencyRepository implements the currency repository ports using pgxpool.
type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

const currencyColumns = `currency_code, symbol, name, is_main, is_active, rate_lock, locale,
	thousand_separator, decimal_separator, decimal_precision, display_schema,
	created_at, last_updated_at`

// SaveCurrency inserts a new currency row.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	modelCurr := mapping.ToModelCurrency(currency)

	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCurr.CurrencyCode,
		modelCurr.Symbol,
		modelCurr.Name,
		modelCurr.Main,
		modelCurr.Active,
		modelCurr.RateLock,
		modelCurr.Locale,
		modelCurr.ThousandSeparator,
		modelCurr.DecimalSeparator,
		modelCurr.DecimalPrecision,
		modelCurr.DisplaySchema,
		modelCurr.CreatedAt,
		modelCurr.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, modelCurr.CurrencyCode)
		}
		return fmt.Errorf("failed to save currency %s: %w", modelCurr.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE currency_code = $1;
	`
	var modelCurr models.Currency
	err := r.Pool.QueryRow(ctx, query, currencyCode).Scan(
		&modelCurr.CurrencyCode,
		&modelCurr.Symbol,
		&modelCurr.Name,
		&modelCurr.Main,
		&modelCurr.Active,
		&modelCurr.RateLock,
		&modelCurr.Locale,
		&modelCurr.ThousandSeparator,
		&modelCurr.DecimalSeparator,
		&modelCurr.DecimalPrecision,
		&modelCurr.DisplaySchema,
		&modelCurr.CreatedAt,
		&modelCurr.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}

	domainCurr := mapping.ToDomainCurrency(modelCurr)
	return &domainCurr, nil
}

// ListCurrencies retrieves all currencies, main currency first, then
// insertion order.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		ORDER BY is_main DESC, created_at ASC, currency_code ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		var currency models.Currency
		err := row.Scan(
			&currency.CurrencyCode,
			&currency.Symbol,
			&currency.Name,
			&currency.Main,
			&currency.Active,
			&currency.RateLock,
			&currency.Locale,
			&currency.ThousandSeparator,
			&currency.DecimalSeparator,
			&currency.DecimalPrecision,
			&currency.DisplaySchema,
			&currency.CreatedAt,
			&currency.LastUpdatedAt,
		)
		return currency, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Currency{}, nil
		}
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// ReplaceMainCurrency clears the main flag everywhere and sets it on the
// given code, in a single transaction. Callers never observe a state with
// zero or multiple mains.
func (r *PgxCurrencyRepository) ReplaceMainCurrency(ctx context.Context, currencyCode string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if _, err := tx.Exec(ctx,
		`UPDATE currencies SET is_main = FALSE, last_updated_at = $1 WHERE is_main;`, now,
	); err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("failed to clear main currency flags: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE currencies SET is_main = TRUE, last_updated_at = $1 WHERE currency_code = $2;`,
		now, currencyCode,
	)
	if err != nil {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("failed to set main currency %s: %w", currencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		_ = r.Rollback(ctx, tx)
		return fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, currencyCode)
	}

	return r.Commit(ctx, tx)
}

// UpdateCurrencyLocale assigns a locale to a currency.
func (r *PgxCurrencyRepository) UpdateCurrencyLocale(ctx context.Context, currencyCode, locale string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE currencies SET locale = $1, last_updated_at = $2 WHERE currency_code = $3;`,
		locale, time.Now(), currencyCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update locale for currency %s: %w", currencyCode, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, currencyCode)
	}
	return nil
}
