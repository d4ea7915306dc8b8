package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shopfx/currency-service/internal/core/domain"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/core/services"
	"github.com/shopfx/currency-service/internal/dto"
)

// --- Test Suite ---

type RateUpdaterServiceTestSuite struct {
	suite.Suite
	mockCurrencySvc *MockCurrencyService
	mockRateRepo    *MockExchangeRateRepository
	mockFetcher     *MockRateFetcher
	service         portssvc.RateUpdaterSvc
}

func (suite *RateUpdaterServiceTestSuite) SetupTest() {
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockFetcher = new(MockRateFetcher)
	suite.service = services.NewRateUpdaterService(suite.mockCurrencySvc, suite.mockRateRepo, suite.mockFetcher)
}

// --- Test Cases ---

func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_FetchesAllActivePairs() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	czk := domain.Currency{CurrencyCode: "CZK", Main: true, Active: true}
	eur := domain.Currency{CurrencyCode: "EUR", Active: true}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return([]domain.Currency{czk, eur}, nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, czk, eur, date).Return(storedRate("CZKEUR", date, 25.0), nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, eur, czk, date).Return(storedRate("EURCZK", date, 0.04), nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
		return len(rates) == 2
	})).Return(nil).Once()

	summary, err := suite.service.UpdateAll(ctx, &date)

	suite.Require().NoError(err)
	suite.Equal(2, summary.Updated)
	suite.Equal(2, summary.Skipped) // the two same-code pairs
	suite.Empty(summary.Failed)
	suite.Equal("2024-01-08", summary.Date)
	suite.mockFetcher.AssertExpectations(suite.T())
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_SkipsInactiveAndRateLocked() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	czk := domain.Currency{CurrencyCode: "CZK", Main: true, Active: true}
	eur := domain.Currency{CurrencyCode: "EUR", Active: true, RateLock: true}
	gbp := domain.Currency{CurrencyCode: "GBP", Active: false}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return([]domain.Currency{czk, eur, gbp}, nil).Once()
	// EUR is rate-locked as a target but still fetches as a source.
	suite.mockFetcher.On("FetchRate", ctx, eur, czk, date).Return(storedRate("EURCZK", date, 0.04), nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.Anything).Return(nil).Once()

	summary, err := suite.service.UpdateAll(ctx, &date)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Updated)
	suite.Equal(3, summary.Skipped) // CZK->EUR locked, CZK->CZK, EUR->EUR
	suite.mockFetcher.AssertExpectations(suite.T())
}

func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_PerPairFailureDoesNotAbort() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	czk := domain.Currency{CurrencyCode: "CZK", Main: true, Active: true}
	eur := domain.Currency{CurrencyCode: "EUR", Active: true}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return([]domain.Currency{czk, eur}, nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, czk, eur, date).Return(nil, assert.AnError).Once()
	suite.mockFetcher.On("FetchRate", ctx, eur, czk, date).Return(storedRate("EURCZK", date, 0.04), nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.MatchedBy(func(rates []domain.ExchangeRate) bool {
		return len(rates) == 1 && rates[0].Pair == "EURCZK"
	})).Return(nil).Once()

	summary, err := suite.service.UpdateAll(ctx, &date)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Updated)
	suite.Equal([]string{"CZKEUR"}, summary.Failed)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_SeedsEmptyRegistry() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	czkSeed := domain.Currency{CurrencyCode: "CZK", Symbol: "Kč", Active: true}
	seeded := []domain.Currency{
		{CurrencyCode: "CZK", Symbol: "Kč", Main: true, Active: true},
		{CurrencyCode: "EUR", Symbol: "€", Active: true},
	}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return([]domain.Currency{}, nil).Once()
	// CZK, EUR, USD and GBP are installed; the first seed becomes the main.
	suite.mockCurrencySvc.On("CreateCurrency", ctx, mock.MatchedBy(func(req dto.CreateCurrencyRequest) bool {
		return req.CurrencyCode == "CZK"
	})).Return(&czkSeed, nil).Once()
	suite.mockCurrencySvc.On("CreateCurrency", ctx, mock.MatchedBy(func(req dto.CreateCurrencyRequest) bool {
		return req.CurrencyCode != "CZK"
	})).Return(&domain.Currency{Active: true}, nil).Times(3)
	suite.mockCurrencySvc.On("SetMainCurrency", ctx, domain.RefOf(czkSeed)).Return(nil).Once()
	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return(seeded, nil).Once()

	suite.mockFetcher.On("FetchRate", ctx, seeded[0], seeded[1], date).Return(storedRate("CZKEUR", date, 25.0), nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, seeded[1], seeded[0], date).Return(storedRate("EURCZK", date, 0.04), nil).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.Anything).Return(nil).Once()

	summary, err := suite.service.UpdateAll(ctx, &date)

	suite.Require().NoError(err)
	suite.Equal(2, summary.Updated)
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

// Seeding goes through the registry service; a registry that cached the
// empty pre-seed list must serve the seeded currencies afterwards instead
// of trying to re-create a default main.
func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_SeedingRefreshesRegistryCache() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	mockRepo := new(MockCurrencyRepository)
	registry := services.NewCurrencyService(mockRepo)
	updater := services.NewRateUpdaterService(registry, suite.mockRateRepo, suite.mockFetcher)

	seeded := []domain.Currency{{CurrencyCode: "CZK", Symbol: "Kč", Main: true, Active: true}}
	mockRepo.On("ListCurrencies", ctx).Return([]domain.Currency{}, nil).Once()
	mockRepo.On("SaveCurrency", ctx, mock.Anything).Return(nil).Times(4)
	mockRepo.On("ReplaceMainCurrency", ctx, "CZK").Return(nil).Once()
	mockRepo.On("ListCurrencies", ctx).Return(seeded, nil).Once()

	// A request listing currencies before the first bulk update caches the
	// empty registry.
	before, err := registry.ListCurrencies(ctx)
	suite.Require().NoError(err)
	suite.Empty(before)

	_, err = updater.UpdateAll(ctx, &date)
	suite.Require().NoError(err)

	main, err := registry.GetMainCurrency(ctx)
	suite.Require().NoError(err)
	suite.Equal("CZK", main.CurrencyCode)
	mockRepo.AssertExpectations(suite.T())
}

func (suite *RateUpdaterServiceTestSuite) TestUpdateAll_NoBatchWriteWhenNothingFetched() {
	ctx := context.Background()
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	czk := domain.Currency{CurrencyCode: "CZK", Main: true, Active: true}

	suite.mockCurrencySvc.On("ListCurrencies", ctx).Return([]domain.Currency{czk}, nil).Once()

	summary, err := suite.service.UpdateAll(ctx, &date)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Updated)
	suite.Equal(1, summary.Skipped)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRates")
}

func TestRateUpdaterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateUpdaterServiceTestSuite))
}
