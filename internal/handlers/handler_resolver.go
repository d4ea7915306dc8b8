package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfx/currency-service/internal/apperrors"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/dto"
	"github.com/shopfx/currency-service/internal/middleware"
	"github.com/shopfx/currency-service/internal/utils"
)

// resolverHandler handles HTTP requests for the visitor's effective currency.
type resolverHandler struct {
	resolverService portssvc.CurrencyResolverSvc
	currencyService portssvc.CurrencySvcFacade
}

// newResolverHandler creates a new resolverHandler.
func newResolverHandler(rs portssvc.CurrencyResolverSvc, cs portssvc.CurrencySvcFacade) *resolverHandler {
	return &resolverHandler{
		resolverService: rs,
		currencyService: cs,
	}
}

// registerResolverRoutes registers routes for session currency resolution.
func registerResolverRoutes(rg *gin.RouterGroup, resolverService portssvc.CurrencyResolverSvc, currencyService portssvc.CurrencySvcFacade) {
	h := newResolverHandler(resolverService, currencyService)

	currency := rg.Group("/currency")
	{
		currency.GET("", h.resolveCurrency)
		currency.PUT("", h.setSessionCurrency)
		currency.DELETE("", h.clearSessionCurrency)
	}
}

// resolveCurrency godoc
// @Summary Resolve the visitor's effective currency
// @Description Picks the acting currency from the session preference, falling back to the Accept-Language locale default
// @Tags currency
// @Produce  json
// @Param   X-Session-ID header string false "Visitor session identifier"
// @Param   locale query string false "Locale override, e.g. cs or en_US"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "No currency could be resolved"
// @Failure 500 {object} map[string]string "Failed to resolve currency"
// @Router /currency [get]
func (h *resolverHandler) resolveCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessionID, _ := middleware.GetSessionIDFromContext(c)
	rawLocale := c.Query("locale")
	if rawLocale == "" {
		rawLocale = c.GetHeader("Accept-Language")
	}
	locale := utils.NormalizeLocale(rawLocale)

	logger.Info("Received request to resolve currency",
		slog.String("session_id", sessionID),
		slog.String("locale", locale),
	)

	currency, err := h.resolverService.ResolveCurrency(c.Request.Context(), nil, sessionID, locale)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No currency could be resolved", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": "No currency could be resolved"})
		} else {
			logger.Error("Failed to resolve currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// setSessionCurrency godoc
// @Summary Set the visitor's preferred currency
// @Description Stores the currency code against the visitor's session
// @Tags currency
// @Accept  json
// @Produce  json
// @Param   X-Session-ID header string true "Visitor session identifier"
// @Param   currency body dto.SetSessionCurrencyRequest true "Preferred currency"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input or missing session"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to set currency"
// @Router /currency [put]
func (h *resolverHandler) setSessionCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session identifier is required"})
		return
	}

	var req dto.SetSessionCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetSessionCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("currency_code", req.CurrencyCode))
	logger.Info("Received request to set session currency")

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), req.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to look up currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set currency"})
		}
		return
	}

	if err := h.resolverService.SetCurrency(c.Request.Context(), sessionID, currency); err != nil {
		logger.Error("Failed to store session currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set currency"})
		return
	}

	logger.Info("Session currency set successfully")
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// clearSessionCurrency godoc
// @Summary Clear the visitor's preferred currency
// @Description Removes the stored currency preference; resolution falls back to the locale default
// @Tags currency
// @Param   X-Session-ID header string true "Visitor session identifier"
// @Success 204 "Preference cleared"
// @Failure 400 {object} map[string]string "Missing session"
// @Failure 500 {object} map[string]string "Failed to clear currency"
// @Router /currency [delete]
func (h *resolverHandler) clearSessionCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session identifier is required"})
		return
	}

	if err := h.resolverService.SetCurrency(c.Request.Context(), sessionID, nil); err != nil {
		logger.Error("Failed to clear session currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear currency"})
		return
	}

	logger.Info("Session currency cleared")
	c.Status(http.StatusNoContent)
}
