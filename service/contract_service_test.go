package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/payslip-verification/dto"
)

func TestNormalizeContractDefaults(t *testing.T) {
	c, err := NormalizeContract(dto.ContractBaseline{EmployeeName: " Max Mustermann ", HourlyRate: 21.88})

	require.NoError(t, err)
	assert.Equal(t, "Max Mustermann", c.EmployeeName)
	assert.Equal(t, DefaultWeeklyHours, c.WeeklyHours)
	assert.Equal(t, DefaultMonthlyHours, c.MonthlyHours)
	assert.Equal(t, DefaultTaxClass, c.TaxClass)
	assert.Equal(t, DefaultVacationDaysPerYear, c.VacationDaysPerYear)
	assert.Equal(t, 3500.8, c.ExpectedGrossSalary)
}

func TestNormalizeContractKeepsGivenValues(t *testing.T) {
	in := mockContract()
	c, err := NormalizeContract(in)

	require.NoError(t, err)
	assert.Equal(t, in, c)
}

func TestNormalizeContractErrors(t *testing.T) {
	_, err := NormalizeContract(dto.ContractBaseline{HourlyRate: 15})
	assert.ErrorIs(t, err, dto.ErrMissingEmployeeName)

	_, err = NormalizeContract(dto.ContractBaseline{EmployeeName: "A"})
	assert.ErrorIs(t, err, dto.ErrMissingHourlyRate)

	_, err = NormalizeContract(dto.ContractBaseline{EmployeeName: "A", HourlyRate: 15, MonthlyHours: -1})
	assert.ErrorIs(t, err, dto.ErrNegativeValue)
}
