package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	"github.com/shopfx/currency-service/internal/platform/config"
)

// RateFetcher resolves banking-day dates and pulls daily rates from the
// external rate API.
//
// Foreign exchange market rates are announced for commonly traded
// currencies every business day after 14:30, valid for the current business
// day and for the following Saturday, Sunday or public holiday. The default
// cutoff of 14:45 adds a safety margin on top of the announcement time.
type RateFetcher struct {
	baseURL      string
	client       *http.Client
	now          func() time.Time
	cutoffHour   int
	cutoffMinute int
}

// RateFetcherOption customizes a RateFetcher.
type RateFetcherOption func(*RateFetcher)

// WithClock replaces the wall clock, used by tests to pin "now".
func WithClock(now func() time.Time) RateFetcherOption {
	return func(f *RateFetcher) { f.now = now }
}

// WithPublishCutoff overrides the daily publish cutoff time.
func WithPublishCutoff(hour, minute int) RateFetcherOption {
	return func(f *RateFetcher) {
		f.cutoffHour = hour
		f.cutoffMinute = minute
	}
}

// NewRateFetcher creates a fetcher against the given rate API base URL.
func NewRateFetcher(baseURL string, client *http.Client, opts ...RateFetcherOption) *RateFetcher {
	f := &RateFetcher{
		baseURL:      baseURL,
		client:       client,
		now:          time.Now,
		cutoffHour:   14,
		cutoffMinute: 45,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRateFetcherFromConfig builds a fetcher with an HTTP client derived
// from configuration. TLS peer verification stays on unless the deployment
// explicitly opted out.
func NewRateFetcherFromConfig(cfg *config.Config) *RateFetcher {
	transport := &http.Transport{}
	if cfg.RateAPIInsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- explicit, audited opt-in
		slog.Warn("TLS peer verification for the rate API is disabled by configuration")
	}
	client := &http.Client{
		Timeout:   cfg.RateAPITimeout,
		Transport: transport,
	}
	return NewRateFetcher(cfg.RateAPIURL, client,
		WithPublishCutoff(cfg.RateCutoffHour, cfg.RateCutoffMinute))
}

// rateAPIResponse mirrors the external rate API payload. The error field
// defaults to failure when absent, so it is decoded as a pointer.
type rateAPIResponse struct {
	Error  *bool    `json:"error"`
	Day    string   `json:"day"`
	Buy    *float64 `json:"buy"`
	Sell   *float64 `json:"sell"`
	Middle *float64 `json:"middle"`
}

// ResolveDate maps a requested date onto the banking day a rate is actually
// published for. Any date from tomorrow onwards is rejected; today before
// the publish cutoff rolls back to yesterday; everything else truncates to
// midnight.
func (f *RateFetcher) ResolveDate(requested time.Time) (time.Time, error) {
	now := f.now()
	tomorrow := startOfDay(now).AddDate(0, 0, 1)
	if !requested.Before(tomorrow) {
		return time.Time{}, fmt.Errorf("%w: currency exchange rate date can not be in future, but %q given",
			apperrors.ErrValidation, requested.Format("2006-01-02"))
	}

	if sameDay(requested, now) {
		cutoff := time.Date(now.Year(), now.Month(), now.Day(), f.cutoffHour, f.cutoffMinute, 0, 0, now.Location())
		if now.Before(cutoff) {
			return startOfDay(now).AddDate(0, 0, -1), nil
		}
	}
	return startOfDay(requested), nil
}

// FetchRate calls the external rate API for the pair and date and returns
// the constructed rate. The rate is not persisted here; the caller owns the
// store.
func (f *RateFetcher) FetchRate(ctx context.Context, source, target domain.Currency, date time.Time) (*domain.ExchangeRate, error) {
	resolved, err := f.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("source", source.CurrencyCode)
	query.Set("target", target.CurrencyCode)
	query.Set("date", resolved.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create rate request: %v", apperrors.ErrUpstream, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to call rate API: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rate API response: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: rate API returned status %d: %s", apperrors.ErrUpstream, resp.StatusCode, payload)
	}

	var body rateAPIResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rate API response: %v: %s", apperrors.ErrUpstream, err, payload)
	}
	// A missing error field is treated as failure, same as error=true.
	if body.Error == nil || *body.Error {
		return nil, fmt.Errorf("%w: can not fetch currency data: %s", apperrors.ErrUpstream, payload)
	}

	rate, err := domain.NewExchangeRate(source.CurrencyCode, target.CurrencyCode)
	if err != nil {
		return nil, err
	}
	rate.ExchangeRateID = uuid.NewString()
	rate.DateEffective = resolved
	now := f.now()
	rate.CreatedAt = now
	rate.LastUpdatedAt = now

	if body.Middle != nil {
		if err := rate.SetMiddle(decimal.NewFromFloat(*body.Middle)); err != nil {
			return nil, err
		}
	}
	if body.Buy != nil {
		if err := rate.SetBuy(decimal.NewFromFloat(*body.Buy)); err != nil {
			return nil, err
		}
	}
	if body.Sell != nil {
		if err := rate.SetSell(decimal.NewFromFloat(*body.Sell)); err != nil {
			return nil, err
		}
	}
	return &rate, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
