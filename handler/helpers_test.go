package handler

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
	"github.com/Aashish23092/payslip-verification/store"
)

const payslipText = `Gehaltsabrechnung Name: Erika Musterfrau Personalnummer: 4711
Abrechnungsmonat: Oktober 2025 Arbeitsstunden: 150,00 Überstunden: 0,00
Bruttogehalt: 3.000,00 Lohnsteuer: 400,00 Sozialversicherung: 300,00
Krankenversicherung: 150,00 Rentenversicherung: 100,00 Arbeitslosenversicherung: 50,00
Nettogehalt: 2.000,00`

type fakePDF struct {
	pages []string
	err   error
}

func (f *fakePDF) ExtractPages(pdfData []byte, password string) ([]string, error) {
	return f.pages, f.err
}

type testServer struct {
	router   *gin.Engine
	sessions *service.SessionService
}

func newTestServer(t *testing.T, pdf service.PDFProcessor, maxFileSize int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := store.Open(filepath.Join(t.TempDir(), "handler-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	comparison := service.NewComparisonService(logger)
	sessions := service.NewSessionService(repo, comparison, 0, logger)
	extraction := service.NewExtractionService(pdf, service.NewStructuredExtractor(nil, 0, logger), logger)

	router := gin.New()
	api := router.Group("/api/v1")
	NewPayslipHandler(extraction, sessions, maxFileSize, logger).Register(api)
	NewContractHandler(logger).Register(api)
	NewComparisonHandler(comparison, logger).Register(api)
	NewTaxHandler(service.NewTaxValidator(logger), logger).Register(api)
	NewSessionHandler(sessions, service.NewExportService(logger), logger).Register(api)

	return &testServer{router: router, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payslip/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// matchingPayslip agrees with matchingContract on every compared value.
func matchingPayslip() dto.PayslipRecord {
	rate := 20.0
	return dto.PayslipRecord{
		EmployeeName: "Max Mustermann",
		Period:       "November 2025",
		WorkHours:    dto.WorkHours{Regular: 160},
		Salary:       dto.Salary{Gross: 3200, Net: 2240, HourlyRate: &rate},
		Deductions: dto.Deductions{DeductionComponents: dto.DeductionComponents{
			TaxAmount:      500,
			SocialSecurity: 460,
		}},
	}
}

func matchingContract() dto.ContractBaseline {
	return dto.ContractBaseline{EmployeeName: "Max Mustermann", HourlyRate: 20}
}
