package models

// Currency represents a row in the currencies table.
type Currency struct {
	CurrencyCode      string  `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Main              bool    `json:"main"`
	Active            bool    `json:"active"`
	RateLock          bool    `json:"rateLock"`
	Locale            *string `json:"locale"`
	ThousandSeparator string  `json:"thousandSeparator"`
	DecimalSeparator  string  `json:"decimalSeparator"`
	DecimalPrecision  int     `json:"decimalPrecision"`
	DisplaySchema     string  `json:"displaySchema"`
	AuditFields
}
