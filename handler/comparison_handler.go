package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
)

type ComparisonHandler struct {
	comparison *service.ComparisonService
	logger     *slog.Logger
}

func NewComparisonHandler(comparison *service.ComparisonService, logger *slog.Logger) *ComparisonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComparisonHandler{comparison: comparison, logger: logger}
}

func (h *ComparisonHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/compare", h.Compare)
}

// Compare handles the POST /compare endpoint
func (h *ComparisonHandler) Compare(c *gin.Context) {
	var request dto.CompareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err)
		return
	}

	contract, err := service.NormalizeContract(request.Contract)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidContract, err.Error(), nil)
		return
	}

	result := h.comparison.Compare(withTotals(request.Payslip), contract)
	c.JSON(http.StatusOK, result)
}

func (h *ComparisonHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	sendError(c, h.logger, statusCode, code, message, err)
}
