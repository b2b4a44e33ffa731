package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Aashish23092/payslip-verification/client"
	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/utils"
)

const DefaultAITimeout = 30 * time.Second

var (
	ErrAIUnavailable    = errors.New("no structured extraction client configured")
	ErrNonPositiveGross = errors.New("salary.gross must be greater than zero")
)

const payslipSchemaJSON = `{
  "type": "object",
  "required": ["workHours", "salary", "deductions"],
  "properties": {
    "employeeName": {"type": ["string", "null"]},
    "employeeId": {"type": ["string", "null"]},
    "period": {"type": ["string", "null"]},
    "workHours": {
      "type": "object",
      "properties": {
        "regular": {"$ref": "#/$defs/amount"},
        "overtime": {"$ref": "#/$defs/amount"},
        "total": {"$ref": "#/$defs/amount"}
      }
    },
    "salary": {
      "type": "object",
      "properties": {
        "gross": {"$ref": "#/$defs/amount"},
        "net": {"$ref": "#/$defs/amount"},
        "hourlyRate": {"$ref": "#/$defs/amount"}
      }
    },
    "deductions": {
      "type": "object",
      "properties": {
        "taxAmount": {"$ref": "#/$defs/amount"},
        "socialSecurity": {"$ref": "#/$defs/amount"},
        "healthInsurance": {"$ref": "#/$defs/amount"},
        "pensionInsurance": {"$ref": "#/$defs/amount"},
        "unemploymentInsurance": {"$ref": "#/$defs/amount"},
        "totalDeductions": {"$ref": "#/$defs/amount"}
      }
    },
    "vacationDays": {
      "type": ["object", "null"],
      "properties": {
        "taken": {"$ref": "#/$defs/amount"},
        "remaining": {"$ref": "#/$defs/amount"}
      }
    }
  },
  "$defs": {
    "amount": {"type": ["number", "null"], "minimum": 0}
  }
}`

var payslipSchema = mustCompileSchema("payslip.json", payslipSchemaJSON)

func mustCompileSchema(name, schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return compiled
}

// aiPayslip mirrors the response document with every leaf nullable.
type aiPayslip struct {
	EmployeeName *string         `json:"employeeName"`
	EmployeeID   *string         `json:"employeeId"`
	Period       *string         `json:"period"`
	WorkHours    aiWorkHours     `json:"workHours"`
	Salary       aiSalary        `json:"salary"`
	Deductions   aiDeductions    `json:"deductions"`
	VacationDays *aiVacationDays `json:"vacationDays"`
}

type aiWorkHours struct {
	Regular  *float64 `json:"regular"`
	Overtime *float64 `json:"overtime"`
	Total    *float64 `json:"total"`
}

type aiSalary struct {
	Gross      *float64 `json:"gross"`
	Net        *float64 `json:"net"`
	HourlyRate *float64 `json:"hourlyRate"`
}

type aiDeductions struct {
	TaxAmount             *float64 `json:"taxAmount"`
	SocialSecurity        *float64 `json:"socialSecurity"`
	HealthInsurance       *float64 `json:"healthInsurance"`
	PensionInsurance      *float64 `json:"pensionInsurance"`
	UnemploymentInsurance *float64 `json:"unemploymentInsurance"`
	TotalDeductions       *float64 `json:"totalDeductions"`
}

type aiVacationDays struct {
	Taken     *float64 `json:"taken"`
	Remaining *float64 `json:"remaining"`
}

// AIOutcome is the result of one structured extraction attempt. Record is set
// only when the response was accepted; otherwise Code and Cause say why not.
type AIOutcome struct {
	Record   *dto.PayslipRecord
	Warnings []dto.Warning
	Code     dto.WarningCode
	Cause    error
}

func (o AIOutcome) Accepted() bool {
	return o.Record != nil
}

// StructuredExtractor calls the structured extraction service and accepts its
// answer only when it passes the payslip schema and has a positive gross salary.
type StructuredExtractor struct {
	client  client.StructuredExtractionClient
	timeout time.Duration
	logger  *slog.Logger
}

func NewStructuredExtractor(c client.StructuredExtractionClient, timeout time.Duration, logger *slog.Logger) *StructuredExtractor {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StructuredExtractor{client: c, timeout: timeout, logger: logger}
}

// Extract never returns an error; every failure is reported in the outcome.
func (e *StructuredExtractor) Extract(ctx context.Context, text string) AIOutcome {
	if e.client == nil {
		return AIOutcome{Code: dto.WarnAITransport, Cause: ErrAIUnavailable}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.client.ExtractPayslipJSON(callCtx, text)
	if err != nil {
		e.logger.Warn("extract.ai.transport_error", "err", err, "elapsed", time.Since(start))
		return AIOutcome{Code: dto.WarnAITransport, Cause: err}
	}

	record, warnings, err := decodePayslipResponse(raw)
	if err != nil {
		e.logger.Warn("extract.ai.rejected", "err", err, "size", len(raw))
		return AIOutcome{Code: dto.WarnAIRejected, Cause: err}
	}

	e.logger.Info("extract.ai.accepted", "gross", record.Salary.Gross, "elapsed", time.Since(start))
	return AIOutcome{Record: record, Warnings: warnings}
}

// stripCodeFence removes a markdown code fence that wraps the whole response.
// Fences inside the document are left alone.
func stripCodeFence(raw []byte) []byte {
	s := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(s, []byte("```")) {
		return s
	}
	nl := bytes.IndexByte(s, '\n')
	if nl < 0 {
		return s
	}
	s = s[nl+1:]
	s = bytes.TrimSpace(s)
	s = bytes.TrimSuffix(s, []byte("```"))
	return bytes.TrimSpace(s)
}

func decodePayslipResponse(raw []byte) (*dto.PayslipRecord, []dto.Warning, error) {
	body := stripCodeFence(raw)

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("response is not JSON: %w", err)
	}
	if err := payslipSchema.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("response does not match payslip schema: %w", err)
	}

	var p aiPayslip
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, nil, fmt.Errorf("decode payslip response: %w", err)
	}

	gross := 0.0
	if p.Salary.Gross != nil {
		gross = *p.Salary.Gross
	}
	if gross <= 0 {
		return nil, nil, ErrNonPositiveGross
	}

	provenance := make(map[string]dto.Provenance, len(dto.AllFields))
	for _, f := range dto.AllFields {
		provenance[f] = dto.ProvenanceExtracted
	}

	var warnings []dto.Warning
	hours := dto.NewWorkHours(
		amount(p.WorkHours.Regular, dto.FieldRegularHours, provenance),
		amount(p.WorkHours.Overtime, dto.FieldOvertime, provenance),
	)
	if p.WorkHours.Total != nil && math.Abs(*p.WorkHours.Total-hours.Total) > 0.01 {
		warnings = append(warnings, dto.Warning{
			Code:    dto.WarnHoursTotalMismatch,
			Message: fmt.Sprintf("reported total hours %.2f differ from regular + overtime %.2f", *p.WorkHours.Total, hours.Total),
		})
	}

	hourlyRate := amount(p.Salary.HourlyRate, dto.FieldHourlyRate, provenance)

	record := &dto.PayslipRecord{
		EmployeeName: textOrUnknown(p.EmployeeName, dto.FieldEmployeeName, provenance),
		Period:       textOrUnknown(p.Period, dto.FieldPeriod, provenance),
		WorkHours:    hours,
		Salary: dto.Salary{
			Gross:      gross,
			Net:        amount(p.Salary.Net, dto.FieldNet, provenance),
			HourlyRate: &hourlyRate,
		},
		Deductions: dto.NewDeductions(dto.DeductionComponents{
			TaxAmount:             amount(p.Deductions.TaxAmount, dto.FieldTaxAmount, provenance),
			SocialSecurity:        amount(p.Deductions.SocialSecurity, dto.FieldSocialSecurity, provenance),
			HealthInsurance:       amount(p.Deductions.HealthInsurance, dto.FieldHealthInsurance, provenance),
			PensionInsurance:      amount(p.Deductions.PensionInsurance, dto.FieldPensionInsurance, provenance),
			UnemploymentInsurance: amount(p.Deductions.UnemploymentInsurance, dto.FieldUnemploymentInsurance, provenance),
		}),
		Provenance: provenance,
	}

	if p.EmployeeID != nil {
		record.EmployeeID = strings.TrimSpace(*p.EmployeeID)
	}
	if record.EmployeeID == "" {
		delete(provenance, dto.FieldEmployeeID)
	}

	if p.VacationDays != nil {
		record.VacationDays = &dto.VacationDays{
			Taken:     amount(p.VacationDays.Taken, dto.FieldVacationDays, provenance),
			Remaining: amount(p.VacationDays.Remaining, dto.FieldVacationDays, provenance),
		}
	} else {
		delete(provenance, dto.FieldVacationDays)
	}

	return record, warnings, nil
}

// amount coerces a null number to 0 and tags the field as heuristic.
func amount(v *float64, field string, provenance map[string]dto.Provenance) float64 {
	if v == nil {
		provenance[field] = dto.ProvenanceHeuristic
		return 0
	}
	return *v
}

// textOrUnknown falls back to utils.UnknownValue for a null or blank string and
// tags the field as heuristic.
func textOrUnknown(v *string, field string, provenance map[string]dto.Provenance) string {
	if v != nil {
		if s := strings.TrimSpace(*v); s != "" && s != utils.UnknownValue {
			return s
		}
	}
	provenance[field] = dto.ProvenanceHeuristic
	return utils.UnknownValue
}
