package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfx/currency-service/internal/apperrors"
	"github.com/shopfx/currency-service/internal/core/domain"
	portssvc "github.com/shopfx/currency-service/internal/core/ports/services"
	"github.com/shopfx/currency-service/internal/dto"
	"github.com/shopfx/currency-service/internal/middleware"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/main", h.getMainCurrency)
		currencies.PUT("/main", h.setMainCurrency)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds a new currency to the registry (admin operation)
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Currency code already exists"
// @Failure 500 {object} map[string]string "Failed to create currency"
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create currency", slog.String("currency_code", req.CurrencyCode))

	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate currency", slog.String("currency_code", req.CurrencyCode))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Currency code '%s' already exists", req.CurrencyCode)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create currency"})
		}
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", createdCurrency.CurrencyCode))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves details for a specific currency by its 3-letter code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to retrieve currency"
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyCode := c.Param("code")

	logger = logger.With(slog.String("currency_code", currencyCode))
	logger.Info("Received request to get currency by code")

	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid currency code", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get currency from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	logger.Info("Currency retrieved successfully")
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Description Retrieves all currencies, main currency first
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Failure 500 {object} map[string]string "Failed to list currencies"
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to list currencies")

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getMainCurrency godoc
// @Summary Get the main currency
// @Description Retrieves the single designated main currency, repairing the registry if the flag is missing or ambiguous
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.CurrencyResponse
// @Failure 500 {object} map[string]string "Failed to retrieve main currency"
// @Router /currencies/main [get]
func (h *currencyHandler) getMainCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to get main currency")

	currency, err := h.currencyService.GetMainCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get main currency from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve main currency"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// setMainCurrency godoc
// @Summary Set the main currency
// @Description Atomically designates the given currency as the single main currency
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.SetMainCurrencyRequest true "Currency to promote"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to set main currency"
// @Router /currencies/main [put]
func (h *currencyHandler) setMainCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetMainCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetMainCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("currency_code", req.CurrencyCode))
	logger.Info("Received request to set main currency")

	if err := h.currencyService.SetMainCurrency(c.Request.Context(), domain.RefCode(req.CurrencyCode)); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Currency not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting main currency", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set main currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set main currency"})
		}
		return
	}

	currency, err := h.currencyService.GetMainCurrency(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read back main currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve main currency"})
		return
	}

	logger.Info("Main currency updated successfully")
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
