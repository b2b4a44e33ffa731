package service

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/utils"
)

const DefaultMinimumWageYear = 2025

// German statutory minimum wage per hour.
var minimumWages = map[int]float64{
	2024: 12.41,
	2025: 12.82,
	2026: 13.50,
}

type deductionBand struct {
	min, max float64
}

// Expected total deduction rate in percent of gross, by tax class.
var deductionBands = map[int]deductionBand{
	1: {20, 42},
	2: {18, 40},
	3: {15, 38},
	4: {20, 42},
	5: {25, 45},
	6: {25, 45},
}

var romanTaxClasses = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6,
}

const (
	bandSlack             = 5.0
	netTolerance          = 1.0
	maxTaxRate            = 45.0
	minSocialSecurityRate = 8.0
	maxSocialSecurityRate = 22.0
)

// TaxValidator runs rough plausibility checks on payslip deductions. It needs
// no contract.
type TaxValidator struct {
	logger *slog.Logger
}

func NewTaxValidator(logger *slog.Logger) *TaxValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxValidator{logger: logger}
}

// ParseTaxClass accepts "1".."6" and "I".."VI". Anything else maps to class 1.
func ParseTaxClass(taxClass string) int {
	s := strings.ToUpper(strings.TrimSpace(taxClass))
	s = strings.TrimPrefix(s, "STKL")
	s = strings.TrimSpace(s)
	if n, ok := romanTaxClasses[s]; ok {
		return n
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '6' {
		return int(s[0] - '0')
	}
	return 1
}

// ValidateTaxes recomputes the deduction total from its components and checks
// it against net pay and the band for the tax class.
func (v *TaxValidator) ValidateTaxes(gross, net, taxAmount float64, deductions dto.DeductionComponents, state, taxClass string) dto.TaxValidationResult {
	class := ParseTaxClass(taxClass)
	band := deductionBands[class]

	if gross <= 0 {
		v.logger.Debug("tax.validate.no_gross", "tax_class", class, "state", state)
		return dto.TaxValidationResult{
			IsValid: false,
			Issues:  []string{"Bruttogehalt fehlt oder ist 0, Abzüge können nicht geprüft werden"},
		}
	}

	issues := []string{}
	total := deductions.Sum()

	calculatedNet := gross - total
	if math.Abs(calculatedNet-net) > netTolerance {
		issues = append(issues, fmt.Sprintf("Netto-Berechnung weicht ab: Erwartet %.2f€, tatsächlich %.2f€", calculatedNet, net))
	}

	rate := total / gross * 100
	if rate < band.min-bandSlack {
		issues = append(issues, fmt.Sprintf("Abzüge scheinen zu niedrig: %.1f%%, erwartet %.1f-%.1f%%", rate, band.min, band.max))
	}
	if rate > band.max+bandSlack {
		issues = append(issues, fmt.Sprintf("Abzüge scheinen zu hoch: %.1f%%, erwartet %.1f-%.1f%%", rate, band.min, band.max))
	}

	taxRate := taxAmount / gross * 100
	if taxRate < 0 {
		issues = append(issues, "Steuerbetrag kann nicht negativ sein")
	}
	if taxRate > maxTaxRate {
		issues = append(issues, "Steuersatz erscheint ungewöhnlich hoch")
	}

	ssRate := deductions.SocialSecurity / gross * 100
	if ssRate < minSocialSecurityRate || ssRate > maxSocialSecurityRate {
		issues = append(issues, fmt.Sprintf("Sozialversicherungsbeiträge scheinen ungewöhnlich: %.1f%%", ssRate))
	}

	v.logger.Debug("tax.validate.done", "tax_class", class, "state", state, "rate", rate, "issues", len(issues))
	return dto.TaxValidationResult{
		IsValid: len(issues) == 0,
		ExpectedRange: dto.AmountRange{
			Min: utils.Round2(gross * band.min / 100),
			Max: utils.Round2(gross * band.max / 100),
		},
		Issues: issues,
	}
}

// MinimumWage returns the statutory minimum for a year, falling back to the
// 2025 value for years not in the table.
func MinimumWage(year int) float64 {
	if w, ok := minimumWages[year]; ok {
		return w
	}
	return minimumWages[DefaultMinimumWageYear]
}

func (v *TaxValidator) ValidateMinimumWage(hourlyRate float64, year int) dto.MinimumWageResult {
	if year == 0 {
		year = DefaultMinimumWageYear
	}
	minimum := MinimumWage(year)
	return dto.MinimumWageResult{
		IsValid:     hourlyRate >= minimum,
		MinimumWage: minimum,
		Difference:  utils.Round2(hourlyRate - minimum),
		Year:        year,
	}
}

// ValidatePayslip runs the tax checks on a record and, when the record carries
// an hourly rate, the minimum wage check as well.
func (v *TaxValidator) ValidatePayslip(record dto.PayslipRecord, taxClass, state string, year int) dto.PayslipValidation {
	result := dto.PayslipValidation{
		Taxes: v.ValidateTaxes(
			record.Salary.Gross,
			record.Salary.Net,
			record.Deductions.TaxAmount,
			record.Deductions.DeductionComponents,
			state,
			taxClass,
		),
	}
	if rate := record.Salary.HourlyRate; rate != nil && *rate > 0 {
		mw := v.ValidateMinimumWage(*rate, year)
		result.MinimumWage = &mw
	}
	return result
}
