package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/dto"
)

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ReplaceMainCurrency(ctx context.Context, currencyCode string) error {
	args := m.Called(ctx, currencyCode)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateCurrencyLocale(ctx context.Context, currencyCode, locale string) error {
	args := m.Called(ctx, currencyCode, locale)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---

type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRatePair(ctx context.Context, pair string, dateEffective time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, pair, dateEffective)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// --- Mock CurrencyService ---

type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetMainCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByLocale(ctx context.Context, locale string) (*domain.Currency, error) {
	args := m.Called(ctx, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) ResolveCurrencyRef(ctx context.Context, ref domain.CurrencyRef) (*domain.Currency, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) SetMainCurrency(ctx context.Context, ref domain.CurrencyRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// --- Mock RateFetcher ---

type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) ResolveDate(requested time.Time) (time.Time, error) {
	args := m.Called(requested)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRateFetcher) FetchRate(ctx context.Context, source, target domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, source, target, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Mock CurrencySessionStore ---

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetSessionCurrency(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) SetSessionCurrency(ctx context.Context, sessionID, currencyCode string) error {
	args := m.Called(ctx, sessionID, currencyCode)
	return args.Error(0)
}

func (m *MockSessionStore) ClearSessionCurrency(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
