package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/dto"
	"github.com/shopfx/currency-service/internal/middleware"
	"github.com/shopfx/currency-service/internal/utils"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService     portssvc.ExchangeRateSvcFacade
	updaterService  portssvc.RateUpdaterSvc
	resolverService portssvc.CurrencyResolverSvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade, us portssvc.RateUpdaterSvc, res portssvc.CurrencyResolverSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService:     rs,
		updaterService:  us,
		resolverService: res,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade, updaterService portssvc.RateUpdaterSvc, resolverService portssvc.CurrencyResolverSvc) {
	h := newExchangeRateHandler(rateService, updaterService, resolverService)

	rates := rg.Group("/rates")
	{
		rates.GET("/:source/:target", h.getRate)
		rates.POST("/update", h.updateRates)
	}
	rg.POST("/convert", h.convert)
}

// refDisplayCode renders a currency reference for log fields.
func refDisplayCode(ref domain.CurrencyRef) string {
	if ref.Currency != nil {
		return ref.Currency.CurrencyCode
	}
	return ref.Code
}

// parseDateParam parses an optional YYYY-MM-DD query value. The zero time
// and nil error mean the parameter was absent.
func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

// getRate godoc
// @Summary Get an exchange rate
// @Description Resolves the applicable rate for a currency pair and date, fetching from the upstream rate API on a store miss
// @Tags rates
// @Produce  json
// @Param   source path string true "Source currency code"
// @Param   target path string true "Target currency code"
// @Param   date query string false "Effective date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 502 {object} map[string]string "Upstream rate API failure"
// @Router /rates/{source}/{target} [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := c.Param("source")
	target := c.Param("target")

	date, err := parseDateParam(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	logger = logger.With(slog.String("source", source), slog.String("target", target))
	logger.Info("Received request to get exchange rate")

	rate, err := h.rateService.GetRate(c.Request.Context(), domain.RefCode(source), domain.RefCode(target), date)
	if err != nil {
		h.writeRateError(c, logger, err, "Failed to resolve exchange rate")
		return
	}

	value, err := rate.Value()
	if err != nil {
		logger.Error("Stored rate has no usable value", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate, value))
}

// convert godoc
// @Summary Convert a price between currencies
// @Description Divides the price by the resolved rate, truncated to 2 decimal places
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 502 {object} map[string]string "Upstream rate API failure"
// @Router /convert [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var date *time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		date = &parsed
	}

	// An absent source falls back to the visitor's resolved currency
	// (session preference, then locale default).
	var source domain.CurrencyRef
	if req.SourceCurrencyCode != "" {
		source = domain.RefCode(req.SourceCurrencyCode)
	} else {
		sessionID, _ := middleware.GetSessionIDFromContext(c)
		locale := utils.NormalizeLocale(c.GetHeader("Accept-Language"))
		resolved, err := h.resolverService.ResolveCurrency(c.Request.Context(), nil, sessionID, locale)
		if err != nil {
			h.writeRateError(c, logger, err, "Failed to convert price")
			return
		}
		source = domain.RefOf(*resolved)
	}

	logger = logger.With(
		slog.String("source", refDisplayCode(source)),
		slog.String("target", req.TargetCurrencyCode),
	)
	logger.Info("Received request to convert price")

	// The rate is resolved once; the reported rate is the exact row the
	// converted amount was derived from.
	effective := time.Now()
	if date != nil {
		effective = *date
	}
	rate, err := h.rateService.GetRate(c.Request.Context(), source, domain.RefCode(req.TargetCurrencyCode), effective)
	if err != nil {
		h.writeRateError(c, logger, err, "Failed to convert price")
		return
	}
	result, value, err := rate.ConvertAmount(req.Price)
	if err != nil {
		logger.Error("Stored rate has no usable value", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert price"})
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Result:             result,
		SourceCurrencyCode: rate.SourceCurrencyCode,
		TargetCurrencyCode: rate.TargetCurrencyCode,
		Rate:               value,
		DateEffective:      rate.DateEffective.Format("2006-01-02"),
	})
}

// updateRates godoc
// @Summary Refresh rates for all currency pairs
// @Description Fetches and persists rates for every active pair, seeding default currencies when the registry is empty
// @Tags rates
// @Produce  json
// @Param   date query string false "Effective date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} dto.RateUpdateSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to update rates"
// @Router /rates/update [post]
func (h *exchangeRateHandler) updateRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := parseDateParam(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}
	var datePtr *time.Time
	if !date.IsZero() {
		datePtr = &date
	}

	logger.Info("Received request to update all rates")

	summary, err := h.updaterService.UpdateAll(c.Request.Context(), datePtr)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rates"})
		return
	}

	logger.Info("Rate update finished",
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", len(summary.Failed)),
	)
	c.JSON(http.StatusOK, summary)
}

// writeRateError maps service errors from rate resolution to HTTP responses.
func (h *exchangeRateHandler) writeRateError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Currency not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error resolving rate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUpstream):
		logger.Error("Upstream rate API failure", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream rate API failure"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
