package services

import (
	portsrepo "github.com/shopfx/currency-service/internal/core/ports/repositories"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Registry first; everything else resolves currencies through it.
	container.Currency = NewCurrencyService(repos.CurrencyRepo)

	fetcher := NewRateFetcherFromConfig(cfg)
	container.Fetcher = fetcher

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency, fetcher)
	container.Resolver = NewCurrencyResolverService(repos.SessionStore, container.Currency)
	container.Updater = NewRateUpdaterService(container.Currency, repos.ExchangeRateRepo, fetcher)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade     = (*CurrencyService)(nil)
	_ portssvc.RateFetcherSvc        = (*RateFetcher)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.CurrencyResolverSvc   = (*CurrencyResolverService)(nil)
	_ portssvc.RateUpdaterSvc        = (*RateUpdaterService)(nil)
)
