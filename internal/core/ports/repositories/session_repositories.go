package repositories

import "context"

// CurrencySessionStore is the external key-value collaborator holding a
// visitor's preferred currency code. Absence is represented by an empty
// string, not an error.
type CurrencySessionStore interface {
	// GetSessionCurrency returns the stored currency code for a session, or
	// "" when none is set.
	GetSessionCurrency(ctx context.Context, sessionID string) (string, error)

	// SetSessionCurrency stores a currency code for a session.
	SetSessionCurrency(ctx context.Context, sessionID, currencyCode string) error

	// ClearSessionCurrency removes the stored currency code for a session.
	ClearSessionCurrency(ctx context.Context, sessionID string) error
}
