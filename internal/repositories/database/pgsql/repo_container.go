package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
)

// NewRepositoryProvider creates the pgx-backed repositories and bundles them
// for the service container. The session store is an external collaborator
// and is wired in by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, sessionStore portsrepo.CurrencySessionStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		SessionStore:     sessionStore,
	}
}
