package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shopfx/currency-service/internal/core/domain"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/core/services"
)

// --- Test Suite ---

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyService
	mockFetcher     *MockRateFetcher
	service         portssvc.ExchangeRateSvcFacade

	czk domain.Currency
	eur domain.Currency
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockFetcher = new(MockRateFetcher)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockCurrencySvc, suite.mockFetcher)

	suite.czk = domain.Currency{CurrencyCode: "CZK", Main: true}
	suite.eur = domain.Currency{CurrencyCode: "EUR"}
}

func (suite *ExchangeRateServiceTestSuite) expectResolve(c domain.Currency) {
	suite.mockCurrencySvc.On("ResolveCurrencyRef", mock.Anything, domain.RefCode(c.CurrencyCode)).
		Return(&c, nil)
}

func storedRate(pair string, date time.Time, middle float64) *domain.ExchangeRate {
	value := decimal.NewFromFloat(middle)
	return &domain.ExchangeRate{
		ExchangeRateID:     uuid.NewString(),
		SourceCurrencyCode: pair[:3],
		TargetCurrencyCode: pair[3:],
		Pair:               pair,
		DateEffective:      date,
		Middle:             &value,
	}
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SameCurrencyShortCircuits() {
	ctx := context.Background()
	suite.expectResolve(suite.czk)

	rate, err := suite.service.GetRate(ctx, domain.RefCode("CZK"), domain.RefCode("CZK"), time.Now())

	suite.Require().NoError(err)
	suite.Require().NotNil(rate.Middle)
	suite.True(rate.Middle.Equal(decimal.NewFromInt(1)))
	suite.Empty(rate.ExchangeRateID)
	// A synthetic identity rate never touches the store or the fetcher.
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindRatePair")
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate")
	suite.mockFetcher.AssertNotCalled(suite.T(), "FetchRate")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_StoredRateWins() {
	ctx := context.Background()
	requested := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	// The store holds a later-dated row; forward scan still matches it.
	stored := storedRate("CZKEUR", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 25.0)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", requested).Return(effective, nil).Once()
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(stored, nil).Once()

	rate, err := suite.service.GetRate(ctx, domain.RefCode("CZK"), domain.RefCode("EUR"), requested)

	suite.Require().NoError(err)
	suite.Equal(stored.ExchangeRateID, rate.ExchangeRateID)
	suite.mockFetcher.AssertNotCalled(suite.T(), "FetchRate")
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_MissFetchesAndPersists() {
	ctx := context.Background()
	requested := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	fetched := storedRate("CZKEUR", effective, 25.0)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", requested).Return(effective, nil).Once()
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(nil, nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, suite.czk, suite.eur, effective).Return(fetched, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRate", ctx, *fetched).Return(nil).Once()

	rate, err := suite.service.GetRate(ctx, domain.RefCode("CZK"), domain.RefCode("EUR"), requested)

	suite.Require().NoError(err)
	suite.Equal(fetched.ExchangeRateID, rate.ExchangeRateID)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockFetcher.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FetchFailureDoesNotPersist() {
	ctx := context.Background()
	requested := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	expectedErr := assert.AnError

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", requested).Return(effective, nil).Once()
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(nil, nil).Once()
	suite.mockFetcher.On("FetchRate", ctx, suite.czk, suite.eur, effective).Return(nil, expectedErr).Once()

	rate, err := suite.service.GetRate(ctx, domain.RefCode("CZK"), domain.RefCode("EUR"), requested)

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, expectedErr)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate")
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_DividesByRate() {
	ctx := context.Background()
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	stored := storedRate("CZKEUR", effective, 25.0)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", mock.Anything).Return(effective, nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(stored, nil)

	result, err := suite.service.Convert(ctx, decimal.NewFromInt(100), domain.RefCode("CZK"), domain.RefCode("EUR"), nil)

	suite.Require().NoError(err)
	suite.Equal("4.00", result)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_TruncatesToTwoPlaces() {
	ctx := context.Background()
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	stored := storedRate("CZKEUR", effective, 3.0)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", mock.Anything).Return(effective, nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(stored, nil)

	// 100 / 3 = 33.333...; truncation, not rounding.
	result, err := suite.service.Convert(ctx, decimal.NewFromInt(100), domain.RefCode("CZK"), domain.RefCode("EUR"), nil)

	suite.Require().NoError(err)
	suite.Equal("33.33", result)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_RoundTripRecoversOriginalAmount() {
	ctx := context.Background()
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", mock.Anything).Return(effective, nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(storedRate("CZKEUR", effective, 25.0), nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "EURCZK", effective).Return(storedRate("EURCZK", effective, 0.04), nil)

	converted, err := suite.service.Convert(ctx, decimal.NewFromInt(100), domain.RefCode("CZK"), domain.RefCode("EUR"), nil)
	suite.Require().NoError(err)
	suite.Equal("4.00", converted)

	// Converting back over the reciprocal rate lands on the original amount
	// within the 2-decimal truncation.
	back, err := suite.service.Convert(ctx, decimal.RequireFromString(converted), domain.RefCode("EUR"), domain.RefCode("CZK"), nil)
	suite.Require().NoError(err)
	suite.Equal("100.00", back)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_BuySellAverageWhenNoMiddle() {
	ctx := context.Background()
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	buy := decimal.NewFromInt(24)
	sell := decimal.NewFromInt(26)
	stored := &domain.ExchangeRate{
		Pair:          "CZKEUR",
		DateEffective: effective,
		Buy:           &buy,
		Sell:          &sell,
	}

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", mock.Anything).Return(effective, nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(stored, nil)

	result, err := suite.service.Convert(ctx, decimal.NewFromInt(100), domain.RefCode("CZK"), domain.RefCode("EUR"), nil)

	suite.Require().NoError(err)
	suite.Equal("4.00", result)
}

func (suite *ExchangeRateServiceTestSuite) TestConvertPrice_UsesEmbeddedCurrency() {
	ctx := context.Background()
	effective := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	stored := storedRate("CZKEUR", effective, 25.0)

	suite.expectResolve(suite.czk)
	suite.expectResolve(suite.eur)
	suite.mockFetcher.On("ResolveDate", mock.Anything).Return(effective, nil)
	suite.mockRateRepo.On("FindRatePair", ctx, "CZKEUR", effective).Return(stored, nil)

	price := domain.Price{Value: decimal.NewFromInt(250), CurrencyCode: "CZK"}
	result, err := suite.service.ConvertPrice(ctx, price, domain.RefCode("EUR"), nil)

	suite.Require().NoError(err)
	suite.Equal("10.00", result)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

func TestExchangeRateValue(t *testing.T) {
	t.Run("middle wins over buy and sell", func(t *testing.T) {
		middle := decimal.NewFromInt(25)
		buy := decimal.NewFromInt(1)
		rate := domain.ExchangeRate{Pair: "CZKEUR", Middle: &middle, Buy: &buy}

		value, err := rate.Value()

		assert.NoError(t, err)
		assert.True(t, value.Equal(middle))
	})

	t.Run("zero value is a logic error", func(t *testing.T) {
		rate := domain.ExchangeRate{Pair: "CZKEUR"}

		_, err := rate.Value()

		assert.Error(t, err)
	})

	t.Run("negative components are rejected on assignment", func(t *testing.T) {
		rate, err := domain.NewExchangeRate("CZK", "EUR")
		assert.NoError(t, err)

		assert.Error(t, rate.SetBuy(decimal.NewFromInt(-1)))
		assert.Error(t, rate.SetSell(decimal.NewFromInt(-1)))
		assert.Error(t, rate.SetMiddle(decimal.NewFromInt(-1)))
	})
}
