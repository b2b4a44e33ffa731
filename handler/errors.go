package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
)

// Error codes returned in dto.ErrorResponse.Error.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeEmptyText         = "EMPTY_TEXT"
	CodeInvalidContract   = "INVALID_CONTRACT"
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodeSessionIncomplete = "SESSION_INCOMPLETE"
	CodeInternal          = "INTERNAL_ERROR"
)

// sendError sends a structured error response
func sendError(c *gin.Context, logger *slog.Logger, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		logger.Warn("http.request.failed",
			"path", c.FullPath(),
			"status", statusCode,
			"code", code,
			"message", message,
			"err", err,
		)
	}

	c.AbortWithStatusJSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// withTotals recomputes the derived totals of a record received from a client.
func withTotals(p dto.PayslipRecord) dto.PayslipRecord {
	p.WorkHours = dto.NewWorkHours(p.WorkHours.Regular, p.WorkHours.Overtime)
	p.Deductions = dto.NewDeductions(p.Deductions.DeductionComponents)
	return p
}
