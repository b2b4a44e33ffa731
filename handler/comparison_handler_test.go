package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/service"
)

func TestCompareMatching(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/compare",
		dto.CompareRequest{Payslip: matchingPayslip(), Contract: matchingContract()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[dto.AnalysisResult](t, w)
	assert.Equal(t, dto.StatusCorrect, result.OverallStatus)
	assert.Len(t, result.Comparisons, 4)
}

func TestCompareLowGross(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)
	payslip := matchingPayslip()
	payslip.Salary.Gross = 3000

	w := srv.do(t, http.MethodPost, "/api/v1/compare",
		dto.CompareRequest{Payslip: payslip, Contract: matchingContract()})
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[dto.AnalysisResult](t, w)
	assert.Equal(t, dto.StatusError, result.OverallStatus)
	var gross *dto.ComparisonFinding
	for i := range result.Comparisons {
		if result.Comparisons[i].Field == service.FindingGross {
			gross = &result.Comparisons[i]
		}
	}
	require.NotNil(t, gross)
	assert.Equal(t, dto.StatusError, gross.Status)
	require.NotNil(t, gross.Difference)
	assert.Equal(t, -200.0, *gross.Difference)
}

func TestCompareInvalidContract(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/compare",
		dto.CompareRequest{Payslip: matchingPayslip(), Contract: dto.ContractBaseline{HourlyRate: 20}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidContract, decode[dto.ErrorResponse](t, w).Error)
}

func TestContractDefaults(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/contract", dto.ContractBaseline{EmployeeName: "  Max Mustermann ", HourlyRate: 15})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	contract := decode[dto.ContractBaseline](t, w)
	assert.Equal(t, "Max Mustermann", contract.EmployeeName)
	assert.Equal(t, 40.0, contract.WeeklyHours)
	assert.Equal(t, 160.0, contract.MonthlyHours)
	assert.Equal(t, 2400.0, contract.ExpectedGrossSalary)
	assert.Equal(t, "1", contract.TaxClass)
	assert.Equal(t, 20.0, contract.VacationDaysPerYear)
}

func TestContractMissingName(t *testing.T) {
	srv := newTestServer(t, &fakePDF{}, 0)

	w := srv.do(t, http.MethodPost, "/api/v1/contract", dto.ContractBaseline{HourlyRate: 15})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrMissingEmployeeName.Error(), decode[dto.ErrorResponse](t, w).Message)
}
