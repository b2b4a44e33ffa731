package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
)

type TaxHandler struct {
	validator *service.TaxValidator
	logger    *slog.Logger
}

func NewTaxHandler(validator *service.TaxValidator, logger *slog.Logger) *TaxHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxHandler{validator: validator, logger: logger}
}

func (h *TaxHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/tax/validate", h.ValidateTaxes)
	rg.GET("/minimum-wage", h.MinimumWage)
}

// ValidateTaxes handles the POST /tax/validate endpoint
func (h *TaxHandler) ValidateTaxes(c *gin.Context) {
	var request dto.TaxValidationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := h.validator.ValidatePayslip(withTotals(request.Payslip), request.TaxClass, request.State, request.Year)
	c.JSON(http.StatusOK, result)
}

// MinimumWage handles GET /minimum-wage?hourlyRate=12.5&year=2025
func (h *TaxHandler) MinimumWage(c *gin.Context) {
	rate, err := strconv.ParseFloat(c.Query("hourlyRate"), 64)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "hourlyRate must be a number", nil)
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "year must be an integer", nil)
			return
		}
	}

	c.JSON(http.StatusOK, h.validator.ValidateMinimumWage(rate, year))
}

func (h *TaxHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	sendError(c, h.logger, statusCode, CodeInvalidRequest, message, err)
}
