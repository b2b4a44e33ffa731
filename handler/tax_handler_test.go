package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
)

func TestValidateTaxesIncludesMinimumWage(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/tax/validate",
		dto.TaxValidationRequest{Payslip: matchingPayslip(), TaxClass: "1", State: "Bayern", Year: 2025})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[dto.PayslipValidation](t, w)
	require.NotNil(t, result.MinimumWage)
	assert.True(t, result.MinimumWage.IsValid)
	assert.Equal(t, 12.82, result.MinimumWage.MinimumWage)
	assert.Equal(t, 2025, result.MinimumWage.Year)
}

func TestMinimumWageQuery(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodGet, "/api/v1/minimum-wage?hourlyRate=12&year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[dto.MinimumWageResult](t, w)
	assert.False(t, result.IsValid)
	assert.Equal(t, -0.82, result.Difference)

	w = srv.do(t, http.MethodGet, "/api/v1/minimum-wage?hourlyRate=13", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2025, decode[dto.MinimumWageResult](t, w).Year)
}

func TestMinimumWageBadQuery(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	for _, path := range []string{
		"/api/v1/minimum-wage",
		"/api/v1/minimum-wage?hourlyRate=abc",
		"/api/v1/minimum-wage?hourlyRate=12&year=next",
	} {
		w := srv.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
