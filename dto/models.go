package dto

import "time"

// Provenance tells whether a field value was read from the document or guessed.
type Provenance string

const (
	ProvenanceExtracted Provenance = "extracted"
	ProvenanceHeuristic Provenance = "heuristic"
)

// Field paths used as provenance keys.
const (
	FieldEmployeeName          = "employeeName"
	FieldEmployeeID            = "employeeId"
	FieldPeriod                = "period"
	FieldRegularHours          = "workHours.regular"
	FieldOvertime              = "workHours.overtime"
	FieldGross                 = "salary.gross"
	FieldNet                   = "salary.net"
	FieldHourlyRate            = "salary.hourlyRate"
	FieldTaxAmount             = "deductions.taxAmount"
	FieldSocialSecurity        = "deductions.socialSecurity"
	FieldHealthInsurance       = "deductions.healthInsurance"
	FieldPensionInsurance      = "deductions.pensionInsurance"
	FieldUnemploymentInsurance = "deductions.unemploymentInsurance"
	FieldVacationDays          = "vacationDays"
)

type WorkHours struct {
	Regular  float64 `json:"regular"`
	Overtime float64 `json:"overtime"`
	Total    float64 `json:"total"`
}

// NewWorkHours is the only constructor for WorkHours; Total is always Regular + Overtime.
func NewWorkHours(regular, overtime float64) WorkHours {
	return WorkHours{
		Regular:  regular,
		Overtime: overtime,
		Total:    regular + overtime,
	}
}

type Salary struct {
	Gross      float64  `json:"gross"`
	Net        float64  `json:"net"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
}

// DeductionComponents are the five individual deduction lines of a payslip.
type DeductionComponents struct {
	TaxAmount             float64 `json:"taxAmount"`
	SocialSecurity        float64 `json:"socialSecurity"`
	HealthInsurance       float64 `json:"healthInsurance"`
	PensionInsurance      float64 `json:"pensionInsurance"`
	UnemploymentInsurance float64 `json:"unemploymentInsurance"`
}

// Sum adds up the five components.
func (d DeductionComponents) Sum() float64 {
	return d.TaxAmount + d.SocialSecurity + d.HealthInsurance + d.PensionInsurance + d.UnemploymentInsurance
}

type Deductions struct {
	DeductionComponents
	TotalDeductions float64 `json:"totalDeductions"`
}

// NewDeductions builds Deductions whose total is the sum of the components.
func NewDeductions(c DeductionComponents) Deductions {
	return Deductions{DeductionComponents: c, TotalDeductions: c.Sum()}
}

type VacationDays struct {
	Taken     float64 `json:"taken"`
	Remaining float64 `json:"remaining"`
}

// PayslipRecord is the structured result of one extraction attempt. It is not
// modified after construction.
type PayslipRecord struct {
	EmployeeName string                `json:"employeeName"`
	EmployeeID   string                `json:"employeeId,omitempty"`
	Period       string                `json:"period"`
	WorkHours    WorkHours             `json:"workHours"`
	Salary       Salary                `json:"salary"`
	Deductions   Deductions            `json:"deductions"`
	VacationDays *VacationDays         `json:"vacationDays,omitempty"`
	Provenance   map[string]Provenance `json:"provenance,omitempty"`
}

// IsHeuristic reports whether the given field was guessed rather than extracted.
func (p PayslipRecord) IsHeuristic(field string) bool {
	return p.Provenance[field] == ProvenanceHeuristic
}

// HeuristicFields lists guessed fields in a stable order.
func (p PayslipRecord) HeuristicFields() []string {
	var out []string
	for _, f := range AllFields {
		if p.IsHeuristic(f) {
			out = append(out, f)
		}
	}
	return out
}

// AllFields is the stable ordering of provenance keys.
var AllFields = []string{
	FieldEmployeeName, FieldEmployeeID, FieldPeriod,
	FieldRegularHours, FieldOvertime,
	FieldGross, FieldNet, FieldHourlyRate,
	FieldTaxAmount, FieldSocialSecurity, FieldHealthInsurance, FieldPensionInsurance, FieldUnemploymentInsurance,
	FieldVacationDays,
}

type Supplements struct {
	Overtime   *float64 `json:"overtime"`
	NightShift *float64 `json:"nightShift"`
	Weekend    *float64 `json:"weekend"`
	Holiday    *float64 `json:"holiday"`
	Other      *string  `json:"other"`
}

// ContractBaseline holds the agreed contract terms used as ground truth.
type ContractBaseline struct {
	EmployeeName        string       `json:"employeeName"`
	HourlyRate          float64      `json:"hourlyRate"`
	WeeklyHours         float64      `json:"weeklyHours"`
	MonthlyHours        float64      `json:"monthlyHours"`
	ExpectedGrossSalary float64      `json:"expectedGrossSalary"`
	TaxClass            string       `json:"taxClass"`
	VacationDaysPerYear float64      `json:"vacationDaysPerYear"`
	State               string       `json:"state,omitempty"`
	City                string       `json:"city,omitempty"`
	Supplements         *Supplements `json:"supplements,omitempty"`
}

type Status string

const (
	StatusCorrect Status = "correct"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Severity orders statuses so that error > warning > correct.
func (s Status) Severity() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

type ComparisonFinding struct {
	Status     Status   `json:"status"`
	Field      string   `json:"field"`
	Expected   any      `json:"expected"`
	Actual     any      `json:"actual"`
	Difference *float64 `json:"difference,omitempty"`
	Message    string   `json:"message"`
}

type AnalysisResult struct {
	PayslipData   PayslipRecord       `json:"payslipData"`
	Comparisons   []ComparisonFinding `json:"comparisons"`
	OverallStatus Status              `json:"overallStatus"`
	Confidence    float64             `json:"confidence"`
	NameMatch     bool                `json:"nameMatch"`
	Notes         []string            `json:"notes"`
}

type AmountRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type TaxValidationResult struct {
	IsValid       bool        `json:"isValid"`
	ExpectedRange AmountRange `json:"expectedRange"`
	Issues        []string    `json:"issues"`
}

type MinimumWageResult struct {
	IsValid     bool    `json:"isValid"`
	MinimumWage float64 `json:"minimumWage"`
	Difference  float64 `json:"difference"`
	Year        int     `json:"year"`
}

// PayslipValidation bundles the tax and minimum wage checks for one record.
type PayslipValidation struct {
	Taxes       TaxValidationResult `json:"taxes"`
	MinimumWage *MinimumWageResult  `json:"minimumWage,omitempty"`
}

type Session struct {
	ID        string            `json:"id"`
	Payslip   *PayslipRecord    `json:"payslip,omitempty"`
	Contract  *ContractBaseline `json:"contract,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
