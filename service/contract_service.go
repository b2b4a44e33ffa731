package service

import (
	"strings"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/utils"
)

// Contract defaults applied to fields left empty.
const (
	DefaultWeeklyHours         = 40.0
	DefaultMonthlyHours        = 160.0
	DefaultTaxClass            = "1"
	DefaultVacationDaysPerYear = 20.0
)

// NormalizeContract validates a contract and fills in defaults. When no
// expected gross salary is given it is derived from rate and monthly hours.
func NormalizeContract(c dto.ContractBaseline) (dto.ContractBaseline, error) {
	c.EmployeeName = strings.TrimSpace(c.EmployeeName)
	if c.EmployeeName == "" {
		return c, dto.ErrMissingEmployeeName
	}
	if c.HourlyRate <= 0 {
		return c, dto.ErrMissingHourlyRate
	}
	if c.WeeklyHours < 0 || c.MonthlyHours < 0 || c.ExpectedGrossSalary < 0 || c.VacationDaysPerYear < 0 {
		return c, dto.ErrNegativeValue
	}

	if c.WeeklyHours == 0 {
		c.WeeklyHours = DefaultWeeklyHours
	}
	if c.MonthlyHours == 0 {
		c.MonthlyHours = DefaultMonthlyHours
	}
	if c.TaxClass == "" {
		c.TaxClass = DefaultTaxClass
	}
	if c.VacationDaysPerYear == 0 {
		c.VacationDaysPerYear = DefaultVacationDaysPerYear
	}
	if c.ExpectedGrossSalary == 0 {
		c.ExpectedGrossSalary = utils.Round2(c.HourlyRate * c.MonthlyHours)
	}
	return c, nil
}
