package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
	"github.com/Aashish23092/payslip-verification/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	sessions *service.SessionService
	export   *service.ExportService
	logger   *slog.Logger
}

func NewSessionHandler(sessions *service.SessionService, export *service.ExportService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{sessions: sessions, export: export, logger: logger}
}

func (h *SessionHandler) Register(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	sessions.POST("", h.Create)
	sessions.GET("/:id", h.Get)
	sessions.PUT("/:id/payslip", h.SavePayslip)
	sessions.PUT("/:id/contract", h.SaveContract)
	sessions.POST("/:id/compare", h.Compare)
	sessions.GET("/:id/report.xlsx", h.Report)
	sessions.DELETE("/:id", h.Delete)
}

func (h *SessionHandler) Create(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) SavePayslip(c *gin.Context) {
	var record dto.PayslipRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err)
		return
	}

	session, err := h.sessions.SavePayslip(c.Request.Context(), c.Param("id"), withTotals(record))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) SaveContract(c *gin.Context) {
	var contract dto.ContractBaseline
	if err := c.ShouldBindJSON(&contract); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err)
		return
	}

	session, err := h.sessions.SaveContract(c.Request.Context(), c.Param("id"), contract)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) Compare(c *gin.Context) {
	result, err := h.sessions.Compare(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Report runs the comparison and returns it as a spreadsheet download.
func (h *SessionHandler) Report(c *gin.Context) {
	id := c.Param("id")
	result, err := h.sessions.Compare(c.Request.Context(), id)
	if err != nil {
		h.sendError(c, err)
		return
	}

	data, err := h.export.ExportAnalysisXLSX(result)
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="lohnabrechnung-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sendError maps service and store errors to HTTP statuses.
func (h *SessionHandler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		sendError(c, h.logger, http.StatusNotFound, CodeSessionNotFound, "Session not found", err)
	case errors.Is(err, dto.ErrIncompleteSession):
		sendError(c, h.logger, http.StatusConflict, CodeSessionIncomplete, "Session is incomplete", err)
	case errors.Is(err, dto.ErrMissingEmployeeName),
		errors.Is(err, dto.ErrMissingHourlyRate),
		errors.Is(err, dto.ErrNegativeValue):
		sendError(c, h.logger, http.StatusBadRequest, CodeInvalidContract, err.Error(), nil)
	default:
		sendError(c, h.logger, http.StatusInternalServerError, CodeInternal, "Session operation failed", err)
	}
}

func sessionResponse(session dto.Session) dto.SessionResponse {
	return dto.SessionResponse{Session: session, ReadyToCompare: service.ReadyToCompare(session)}
}
