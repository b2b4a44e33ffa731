package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/payslip-verification/dto"
)

const (
	ComparisonSheet = "Vergleich"
	PayslipSheet    = "Abrechnung"
)

// ExportService renders an analysis result as an XLSX workbook.
type ExportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{logger: logger}
}

// ExportAnalysisXLSX returns a workbook with the findings on one sheet and the
// payslip values with their provenance on another.
func (s *ExportService) ExportAnalysisXLSX(result dto.AnalysisResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ComparisonSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(PayslipSheet); err != nil {
		return nil, err
	}

	if err := writeComparisonSheet(f, result); err != nil {
		return nil, fmt.Errorf("xlsx comparison sheet: %w", err)
	}
	if err := writePayslipSheet(f, result.PayslipData); err != nil {
		return nil, fmt.Errorf("xlsx payslip sheet: %w", err)
	}

	index, _ := f.GetSheetIndex(ComparisonSheet)
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.done",
		"findings", len(result.Comparisons),
		"bytes", buf.Len(),
		"elapsed", time.Since(start),
	)
	return buf.Bytes(), nil
}

// sheetWriter writes cells of one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, startCol, endCol, width)
}

func writeComparisonSheet(f *excelize.File, result dto.AnalysisResult) error {
	w := &sheetWriter{f: f, sheet: ComparisonSheet}
	row := 1

	for i, h := range []string{"Feld", "Status", "Erwartet", "Tatsächlich", "Differenz", "Hinweis"} {
		w.set(i+1, row, h)
	}
	row++

	for _, c := range result.Comparisons {
		w.set(1, row, c.Field)
		w.set(2, row, string(c.Status))
		w.set(3, row, c.Expected)
		w.set(4, row, c.Actual)
		if c.Difference != nil {
			w.set(5, row, *c.Difference)
		}
		w.set(6, row, c.Message)
		row++
	}

	row++
	w.set(1, row, "Gesamtstatus")
	w.set(2, row, string(result.OverallStatus))
	row++
	w.set(1, row, "Konfidenz")
	w.set(2, row, fmt.Sprintf("%.0f%%", result.Confidence))
	row++
	w.set(1, row, "Name stimmt überein")
	w.set(2, row, yesNo(result.NameMatch))
	for _, note := range result.Notes {
		row++
		w.set(1, row, "Hinweis")
		w.set(2, row, note)
	}

	w.width("A", "A", 22)
	w.width("B", "B", 12)
	w.width("C", "E", 14)
	w.width("F", "F", 60)
	return w.err
}

func writePayslipSheet(f *excelize.File, p dto.PayslipRecord) error {
	type line struct {
		label string
		field string
		value any
	}
	lines := []line{
		{"Mitarbeiter", dto.FieldEmployeeName, p.EmployeeName},
		{"Personalnummer", dto.FieldEmployeeID, p.EmployeeID},
		{"Zeitraum", dto.FieldPeriod, p.Period},
		{"Reguläre Stunden", dto.FieldRegularHours, p.WorkHours.Regular},
		{"Überstunden", dto.FieldOvertime, p.WorkHours.Overtime},
		{"Gesamtstunden", "", p.WorkHours.Total},
		{"Brutto", dto.FieldGross, p.Salary.Gross},
		{"Netto", dto.FieldNet, p.Salary.Net},
		{"Stundenlohn", dto.FieldHourlyRate, hourlyRateValue(p.Salary.HourlyRate)},
		{"Lohnsteuer", dto.FieldTaxAmount, p.Deductions.TaxAmount},
		{"Sozialversicherung", dto.FieldSocialSecurity, p.Deductions.SocialSecurity},
		{"Krankenversicherung", dto.FieldHealthInsurance, p.Deductions.HealthInsurance},
		{"Rentenversicherung", dto.FieldPensionInsurance, p.Deductions.PensionInsurance},
		{"Arbeitslosenversicherung", dto.FieldUnemploymentInsurance, p.Deductions.UnemploymentInsurance},
		{"Abzüge gesamt", "", p.Deductions.TotalDeductions},
	}
	if p.VacationDays != nil {
		lines = append(lines,
			line{"Urlaub genommen", dto.FieldVacationDays, p.VacationDays.Taken},
			line{"Resturlaub", dto.FieldVacationDays, p.VacationDays.Remaining},
		)
	}

	w := &sheetWriter{f: f, sheet: PayslipSheet}
	for i, h := range []string{"Feld", "Wert", "Herkunft"} {
		w.set(i+1, 1, h)
	}
	for i, l := range lines {
		row := i + 2
		w.set(1, row, l.label)
		w.set(2, row, l.value)
		w.set(3, row, string(p.Provenance[l.field]))
	}

	w.width("A", "A", 26)
	w.width("B", "B", 18)
	w.width("C", "C", 12)
	return w.err
}

func hourlyRateValue(rate *float64) any {
	if rate == nil {
		return ""
	}
	return *rate
}

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nein"
}
