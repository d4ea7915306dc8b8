package mapping

import (
	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode:      d.CurrencyCode,
		Symbol:            d.Symbol,
		Name:              d.Name,
		Main:              d.Main,
		Active:            d.Active,
		RateLock:          d.RateLock,
		Locale:            d.Locale,
		ThousandSeparator: d.ThousandSeparator,
		DecimalSeparator:  d.DecimalSeparator,
		DecimalPrecision:  d.DecimalPrecision,
		DisplaySchema:     d.DisplaySchema,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode:      m.CurrencyCode,
		Symbol:            m.Symbol,
		Name:              m.Name,
		Main:              m.Main,
		Active:            m.Active,
		RateLock:          m.RateLock,
		Locale:            m.Locale,
		ThousandSeparator: m.ThousandSeparator,
		DecimalSeparator:  m.DecimalSeparator,
		DecimalPrecision:  m.DecimalPrecision,
		DisplaySchema:     m.DisplaySchema,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to a slice of domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}
