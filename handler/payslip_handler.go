package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
	"github.com/Aashish23092/payslip-verification/store"
)

type PayslipHandler struct {
	extraction  *service.ExtractionService
	sessions    *service.SessionService
	maxFileSize int64
	logger      *slog.Logger
}

// NewPayslipHandler builds the extraction endpoints. sessions may be nil, in
// which case a session id in the request is ignored.
func NewPayslipHandler(extraction *service.ExtractionService, sessions *service.SessionService, maxFileSize int64, logger *slog.Logger) *PayslipHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayslipHandler{
		extraction:  extraction,
		sessions:    sessions,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *PayslipHandler) Register(rg *gin.RouterGroup) {
	payslip := rg.Group("/payslip")
	payslip.POST("/extract", h.ExtractPDF)
	payslip.POST("/extract-text", h.ExtractText)
}

// ExtractPDF handles the POST /payslip/extract endpoint
func (h *PayslipHandler) ExtractPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, dto.ErrMissingFile.Error(), nil)
		return
	}

	request := &dto.PayslipUploadRequest{
		File:      file,
		Password:  c.PostForm("password"),
		SessionID: c.PostForm("session_id"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, CodeFileTooLarge, "file exceeds the upload limit", nil)
		return
	}

	f, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Failed to open uploaded file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Failed to read uploaded file", err)
		return
	}

	h.logger.Info("http.payslip.upload", "filename", file.Filename, "size", file.Size, "encrypted", request.Password != "")

	result, err := h.extraction.ExtractFromPDF(c.Request.Context(), data, request.Password)
	h.respond(c, result, err, request.SessionID)
}

// ExtractText handles the POST /payslip/extract-text endpoint
func (h *PayslipHandler) ExtractText(c *gin.Context) {
	var request dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err)
		return
	}

	result, err := h.extraction.ExtractFromText(c.Request.Context(), request.Text)
	h.respond(c, result, err, request.SessionID)
}

func (h *PayslipHandler) respond(c *gin.Context, result *dto.ExtractionResult, err error, sessionID string) {
	if err != nil {
		if errors.Is(err, dto.ErrEmptyText) {
			h.sendError(c, http.StatusUnprocessableEntity, CodeEmptyText, dto.ErrEmptyText.Error(), err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, CodeInternal, "Failed to extract payslip", err)
		return
	}

	response := dto.ExtractResponse{Payslip: result.Record, Trace: result.Trace}
	if sessionID != "" && h.sessions != nil {
		if _, err := h.sessions.SavePayslip(c.Request.Context(), sessionID, result.Record); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				h.sendError(c, http.StatusNotFound, CodeSessionNotFound, "Session not found", err)
				return
			}
			h.sendError(c, http.StatusInternalServerError, CodeInternal, "Failed to store payslip", err)
			return
		}
		response.SessionID = sessionID
	}

	c.JSON(http.StatusOK, response)
}

func (h *PayslipHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	sendError(c, h.logger, statusCode, code, message, err)
}
