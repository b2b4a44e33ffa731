package service

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/utils"
)

// Finding field names as shown to the user.
const (
	FindingHourlyRate = "Stundenlohn"
	FindingHours      = "Arbeitsstunden"
	FindingGross      = "Brutto-Gehalt"
	FindingOvertime   = "Überstunden"
	FindingDeductions = "Abzüge"
)

const (
	hourlyRateTolerance   = 0.01
	grossTolerance        = 10.0
	floatSlack            = 1e-9
	minDeductionRate      = 20.0
	maxDeductionRate      = 50.0
	expectedDeductionBand = "30-40%"
)

type ComparisonService struct {
	logger *slog.Logger
}

func NewComparisonService(logger *slog.Logger) *ComparisonService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComparisonService{logger: logger}
}

// Compare checks a payslip against the contract terms. It has no side effects
// apart from logging and returns the same result for the same input.
func (s *ComparisonService) Compare(payslip dto.PayslipRecord, contract dto.ContractBaseline) dto.AnalysisResult {
	findings := []dto.ComparisonFinding{}

	if f, ok := compareHourlyRate(payslip, contract); ok {
		findings = append(findings, f)
	}
	findings = append(findings,
		compareHours(payslip, contract),
		compareGross(payslip, contract),
	)
	if f, ok := checkOvertime(payslip); ok {
		findings = append(findings, f)
	}
	findings = append(findings, checkDeductionRate(payslip))

	status, confidence := aggregate(findings)

	result := dto.AnalysisResult{
		PayslipData:   payslip,
		Comparisons:   findings,
		OverallStatus: status,
		Confidence:    confidence,
		Notes:         []string{},
	}

	result.NameMatch, result.Notes = matchName(payslip, contract, result.Notes)
	result.Notes = append(result.Notes, heuristicNotes(payslip)...)

	s.logger.Info("compare.done",
		"status", status,
		"confidence", confidence,
		"findings", len(findings),
		"name_match", result.NameMatch,
	)
	return result
}

func compareHourlyRate(p dto.PayslipRecord, c dto.ContractBaseline) (dto.ComparisonFinding, bool) {
	if p.Salary.HourlyRate == nil || *p.Salary.HourlyRate <= 0 {
		return dto.ComparisonFinding{}, false
	}
	actual := *p.Salary.HourlyRate
	raw := actual - c.HourlyRate

	if math.Abs(raw) > hourlyRateTolerance+floatSlack {
		diff := utils.Round2(raw)
		return dto.ComparisonFinding{
			Status:     dto.StatusError,
			Field:      FindingHourlyRate,
			Expected:   c.HourlyRate,
			Actual:     actual,
			Difference: &diff,
			Message:    fmt.Sprintf("Stundenlohn stimmt nicht überein. Differenz: %.2f€", math.Abs(diff)),
		}, true
	}
	return dto.ComparisonFinding{
		Status:   dto.StatusCorrect,
		Field:    FindingHourlyRate,
		Expected: c.HourlyRate,
		Actual:   actual,
		Message:  "Stundenlohn korrekt",
	}, true
}

// A shortfall is an error, a surplus only a warning.
func compareHours(p dto.PayslipRecord, c dto.ContractBaseline) dto.ComparisonFinding {
	expected := c.MonthlyHours
	actual := p.WorkHours.Regular
	raw := actual - expected

	if math.Abs(raw) <= floatSlack {
		return dto.ComparisonFinding{
			Status:   dto.StatusCorrect,
			Field:    FindingHours,
			Expected: expected,
			Actual:   actual,
			Message:  "Arbeitsstunden korrekt",
		}
	}

	diff := utils.Round2(raw)
	status, verb := dto.StatusError, "unterschritten"
	if raw > 0 {
		status, verb = dto.StatusWarning, "überschritten"
	}
	return dto.ComparisonFinding{
		Status:     status,
		Field:      FindingHours,
		Expected:   expected,
		Actual:     actual,
		Difference: &diff,
		Message:    fmt.Sprintf("Arbeitsstunden %s: %gh", verb, math.Abs(diff)),
	}
}

func compareGross(p dto.PayslipRecord, c dto.ContractBaseline) dto.ComparisonFinding {
	expected := c.ExpectedGrossSalary
	actual := p.Salary.Gross
	raw := actual - expected

	if math.Abs(raw) > grossTolerance+floatSlack {
		diff := utils.Round2(raw)
		return dto.ComparisonFinding{
			Status:     dto.StatusError,
			Field:      FindingGross,
			Expected:   expected,
			Actual:     actual,
			Difference: &diff,
			Message:    fmt.Sprintf("Brutto-Gehalt weicht ab. Differenz: %.2f€", math.Abs(diff)),
		}
	}
	return dto.ComparisonFinding{
		Status:   dto.StatusCorrect,
		Field:    FindingGross,
		Expected: expected,
		Actual:   actual,
		Message:  "Brutto-Gehalt korrekt",
	}
}

func checkOvertime(p dto.PayslipRecord) (dto.ComparisonFinding, bool) {
	overtime := p.WorkHours.Overtime
	if overtime <= 0 {
		return dto.ComparisonFinding{}, false
	}
	diff := overtime
	return dto.ComparisonFinding{
		Status:     dto.StatusWarning,
		Field:      FindingOvertime,
		Expected:   0.0,
		Actual:     overtime,
		Difference: &diff,
		Message:    fmt.Sprintf("%g Überstunden angefallen", overtime),
	}, true
}

func checkDeductionRate(p dto.PayslipRecord) dto.ComparisonFinding {
	if p.Salary.Gross <= 0 {
		return dto.ComparisonFinding{
			Status:   dto.StatusWarning,
			Field:    FindingDeductions,
			Expected: expectedDeductionBand,
			Actual:   "n/a",
			Message:  "Abzüge nicht prüfbar: Bruttogehalt ist 0",
		}
	}

	rate := p.Deductions.TotalDeductions / p.Salary.Gross * 100
	actual := fmt.Sprintf("%.1f%%", rate)
	if rate < minDeductionRate || rate > maxDeductionRate {
		return dto.ComparisonFinding{
			Status:   dto.StatusWarning,
			Field:    FindingDeductions,
			Expected: expectedDeductionBand,
			Actual:   actual,
			Message:  fmt.Sprintf("Abzüge erscheinen ungewöhnlich: %.1f%%", rate),
		}
	}
	return dto.ComparisonFinding{
		Status:   dto.StatusCorrect,
		Field:    FindingDeductions,
		Expected: expectedDeductionBand,
		Actual:   actual,
		Message:  "Abzüge im normalen Bereich",
	}
}

// aggregate returns the most severe status and the share of correct findings.
// An empty finding set counts as fully correct.
func aggregate(findings []dto.ComparisonFinding) (dto.Status, float64) {
	if len(findings) == 0 {
		return dto.StatusCorrect, 100
	}
	status := dto.StatusCorrect
	correct := 0
	for _, f := range findings {
		if f.Status.Severity() > status.Severity() {
			status = f.Status
		}
		if f.Status == dto.StatusCorrect {
			correct++
		}
	}
	return status, 100 * float64(correct) / float64(len(findings))
}

func matchName(p dto.PayslipRecord, c dto.ContractBaseline, notes []string) (bool, []string) {
	if p.IsHeuristic(dto.FieldEmployeeName) || p.EmployeeName == utils.UnknownValue {
		return false, append(notes, "Name konnte nicht aus der Abrechnung gelesen werden")
	}
	if utils.CompareNames(p.EmployeeName, c.EmployeeName) {
		return true, notes
	}
	return false, append(notes, fmt.Sprintf("Name auf der Abrechnung (%s) stimmt nicht mit dem Vertrag (%s) überein", p.EmployeeName, c.EmployeeName))
}

var comparedFields = []struct {
	finding string
	fields  []string
}{
	{FindingHourlyRate, []string{dto.FieldHourlyRate}},
	{FindingHours, []string{dto.FieldRegularHours}},
	{FindingGross, []string{dto.FieldGross}},
	{FindingOvertime, []string{dto.FieldOvertime}},
	{FindingDeductions, []string{
		dto.FieldTaxAmount, dto.FieldSocialSecurity, dto.FieldHealthInsurance,
		dto.FieldPensionInsurance, dto.FieldUnemploymentInsurance,
	}},
}

func heuristicNotes(p dto.PayslipRecord) []string {
	var notes []string
	for _, cf := range comparedFields {
		for _, field := range cf.fields {
			if p.IsHeuristic(field) {
				notes = append(notes, fmt.Sprintf("%s: Wert geschätzt, nicht aus dem Dokument gelesen", cf.finding))
				break
			}
		}
	}
	return notes
}
