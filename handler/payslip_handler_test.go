package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
)

func TestExtractTextFallsBackToLabelParser(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/payslip/extract-text", dto.ExtractTextRequest{Text: payslipText})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.ExtractResponse](t, w)
	assert.Equal(t, dto.StageFallback, resp.Trace.StageUsed)
	assert.Equal(t, dto.StateResolved, resp.Trace.State)
	assert.Equal(t, "Erika Musterfrau", resp.Payslip.EmployeeName)
	assert.Equal(t, 3000.0, resp.Payslip.Salary.Gross)
	assert.Equal(t, 2000.0, resp.Payslip.Salary.Net)
	assert.True(t, resp.Trace.HasWarning(dto.WarnAITransport))
	assert.Empty(t, resp.SessionID)
}

func TestExtractTextEmpty(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/payslip/extract-text", dto.ExtractTextRequest{Text: "   "})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, CodeEmptyText, resp.Error)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestExtractTextInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/payslip/extract-text", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidRequest, decode[dto.ErrorResponse](t, w).Error)
}

func TestExtractTextStoresInSession(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)
	session, err := srv.sessions.Create(t.Context())
	require.NoError(t, err)

	w := srv.do(t, http.MethodPost, "/api/v1/payslip/extract-text",
		dto.ExtractTextRequest{Text: payslipText, SessionID: session.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, session.ID, decode[dto.ExtractResponse](t, w).SessionID)

	stored, err := srv.sessions.Get(t.Context(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Payslip)
	assert.Equal(t, "Erika Musterfrau", stored.Payslip.EmployeeName)
}

func TestExtractTextUnknownSession(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/payslip/extract-text",
		dto.ExtractTextRequest{Text: payslipText, SessionID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeSessionNotFound, decode[dto.ErrorResponse](t, w).Error)
}

func TestExtractPDF(t *testing.T) {
	srv := newTestServer(t, &fakePDF{pages: []string{payslipText}}, 1024)

	w := srv.upload(t, "abrechnung.pdf", []byte("%PDF-1.7 fake"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[dto.ExtractResponse](t, w)
	assert.Equal(t, "Erika Musterfrau", resp.Payslip.EmployeeName)
	assert.Equal(t, 150.0, resp.Payslip.WorkHours.Regular)
}

func TestExtractPDFRejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		pdf      *fakePDF
		status   int
		code     string
	}{
		{"missing file", "", nil, &fakePDF{}, http.StatusBadRequest, CodeInvalidRequest},
		{"not a pdf", "scan.png", []byte("png"), &fakePDF{}, http.StatusBadRequest, CodeInvalidRequest},
		{"too large", "big.pdf", make([]byte, 64), &fakePDF{}, http.StatusRequestEntityTooLarge, CodeFileTooLarge},
		{"no text pages", "empty.pdf", []byte("%PDF"), &fakePDF{}, http.StatusUnprocessableEntity, CodeEmptyText},
		{"unreadable", "broken.pdf", []byte("%PDF"), &fakePDF{err: errors.New("malformed xref")}, http.StatusUnprocessableEntity, CodeEmptyText},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.pdf, 32)

			w := srv.upload(t, tc.filename, tc.content, map[string]string{"password": ""})
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, w).Error)
		})
	}
}
