package mapping

import (
	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:     d.ExchangeRateID,
		SourceCurrencyCode: d.SourceCurrencyCode,
		TargetCurrencyCode: d.TargetCurrencyCode,
		Pair:               d.Pair,
		DateEffective:      d.DateEffective,
		Buy:                d.Buy,
		Sell:               d.Sell,
		Middle:             d.Middle,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:     m.ExchangeRateID,
		SourceCurrencyCode: m.SourceCurrencyCode,
		TargetCurrencyCode: m.TargetCurrencyCode,
		Pair:               m.Pair,
		DateEffective:      m.DateEffective,
		Buy:                m.Buy,
		Sell:               m.Sell,
		Middle:             m.Middle,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
