package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
)

type ContractHandler struct {
	logger *slog.Logger
}

func NewContractHandler(logger *slog.Logger) *ContractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractHandler{logger: logger}
}

func (h *ContractHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/contract", h.Validate)
}

// Validate handles the POST /contract endpoint and returns the contract with
// defaults filled in.
func (h *ContractHandler) Validate(c *gin.Context) {
	var contract dto.ContractBaseline
	if err := c.ShouldBindJSON(&contract); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err)
		return
	}

	normalized, err := service.NormalizeContract(contract)
	if err != nil {
		sendError(c, h.logger, http.StatusBadRequest, CodeInvalidContract, err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, normalized)
}
