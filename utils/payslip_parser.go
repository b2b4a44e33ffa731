package utils

import (
	"math"
	"regexp"
	"strings"

	"github.com/Aashish23092/payslip-verification/dto"
)

// Placeholder values used when a field cannot be found in the text. Fields filled
// from these are tagged with dto.ProvenanceHeuristic.
const (
	DefaultGross             = 3500.0
	DefaultNet               = 2245.0
	DefaultHours             = 160.0
	DefaultOvertime          = 0.0
	DefaultVacationRemaining = 30.0
	UnknownValue             = "Unbekannt"
)

// Shares of (gross - net) assigned to a deduction line that is missing from the text.
const (
	taxShare          = 0.45
	socialShare       = 0.25
	healthShare       = 0.15
	pensionShare      = 0.10
	unemploymentShare = 0.05
)

const (
	// a label must not continue a longer word
	labelPrefix = `(?:^|[^\p{L}\p{N}])`
	numberValue = `[:\s-]*(-?\d[\d.,]*)`
	nameValue   = `[:\s]+(\p{Lu}[\p{L}-]*(?:\s+\p{Lu}[\p{L}-]*)*)`
	idValue     = `[:\s]*([A-Z]*-?\d[\w-]*)`
	periodValue = `[:\s]+(\d{2}\.\d{2}\.\d{4}\s*-\s*\d{2}\.\d{2}\.\d{4}|\p{L}+\s+\d{4}|\d{2}[./]\d{4}|\d{2}[./]\d{2})`
)

// fieldRule maps one record field to the labels that can introduce its value,
// in preference order.
type fieldRule struct {
	field    string
	patterns []*regexp.Regexp
}

func newRule(field, value string, labels ...string) *fieldRule {
	r := &fieldRule{field: field}
	for _, label := range labels {
		r.patterns = append(r.patterns, regexp.MustCompile(labelPrefix+`(?i:`+regexp.QuoteMeta(label)+`)`+value))
	}
	return r
}

// find returns the value following the first label (in preference order) that
// matches anywhere in text.
func (r *fieldRule) find(text string) (string, bool) {
	for _, re := range r.patterns {
		if matches := re.FindStringSubmatch(text); len(matches) > 1 {
			return strings.TrimSpace(matches[1]), true
		}
	}
	return "", false
}

// findAmount returns the normalized number following the rule's labels.
func (r *fieldRule) findAmount(text string) (float64, bool) {
	raw, ok := r.find(text)
	if !ok {
		return 0, false
	}
	return ParseGermanNumber(raw), true
}

var (
	grossRule = newRule(dto.FieldGross, numberValue,
		"Brutto", "Bruttolohn", "Bruttogehalt", "Gesamtbrutto", "Bruttoentgelt", "Bruttobetrag")
	netRule = newRule(dto.FieldNet, numberValue,
		"Netto", "Nettolohn", "Nettogehalt", "Nettobetrag", "Nettoentgelt", "Auszahlungsbetrag", "Auszahlung")
	hoursRule = newRule(dto.FieldRegularHours, numberValue,
		"Arbeitsstunden", "Monatsstunden", "Stunden", "Std.", "Std")
	overtimeRule = newRule(dto.FieldOvertime, numberValue,
		"Überstunden", "Mehrarbeit", "ÜS")
	hourlyRateRule = newRule(dto.FieldHourlyRate, numberValue,
		"Stundenlohn", "Stundensatz", "Std.-Lohn")

	taxRule = newRule(dto.FieldTaxAmount, numberValue,
		"Lohnsteuer", "Steuer")
	socialRule = newRule(dto.FieldSocialSecurity, numberValue,
		"Sozialversicherung", "SV-Beitrag")
	healthRule = newRule(dto.FieldHealthInsurance, numberValue,
		"Krankenversicherung", "KV-Beitrag", "KV")
	pensionRule = newRule(dto.FieldPensionInsurance, numberValue,
		"Rentenversicherung", "RV-Beitrag", "RV")
	unemploymentRule = newRule(dto.FieldUnemploymentInsurance, numberValue,
		"Arbeitslosenversicherung", "AV-Beitrag", "AV")

	vacationTakenRule = newRule(dto.FieldVacationDays, numberValue,
		"Urlaub genommen", "Urlaubstage genommen", "Genommener Urlaub")
	vacationRemainingRule = newRule(dto.FieldVacationDays, numberValue,
		"Resturlaub", "Urlaubstage verbleibend", "Verbleibender Urlaub")

	nameRule = newRule(dto.FieldEmployeeName, nameValue,
		"Name", "Mitarbeiter", "Arbeitnehmer")
	employeeIDRule = newRule(dto.FieldEmployeeID, idValue,
		"Personalnummer", "Personal-Nr.", "Pers.-Nr.", "Personal-Nr")
	periodRule = newRule(dto.FieldPeriod, periodValue,
		"Abrechnungszeitraum", "Abrechnungsmonat", "Zeitraum", "Monat", "Datum")

	employeeCodeRegex = regexp.MustCompile(`(?i)(EMP[- ]?\d{3,})`)
)

// ParsePayslipText recovers a payslip record from flattened document text using
// label patterns only. It never fails: every field that cannot be found is filled
// with a placeholder or derived value and tagged as heuristic.
func ParsePayslipText(text string) dto.PayslipRecord {
	normalized := NormalizeWhitespace(text)
	p := &payslipParser{
		text:       normalized,
		provenance: make(map[string]dto.Provenance, len(dto.AllFields)),
	}

	gross := p.positiveAmount(grossRule, DefaultGross)
	net := p.positiveAmount(netRule, DefaultNet)
	hours := p.positiveAmount(hoursRule, DefaultHours)
	overtime := p.printedAmount(overtimeRule, DefaultOvertime)

	spread := math.Max(gross-net, 0)
	components := dto.DeductionComponents{
		TaxAmount:             p.printedAmount(taxRule, spread*taxShare),
		SocialSecurity:        p.printedAmount(socialRule, spread*socialShare),
		HealthInsurance:       p.printedAmount(healthRule, spread*healthShare),
		PensionInsurance:      p.printedAmount(pensionRule, spread*pensionShare),
		UnemploymentInsurance: p.printedAmount(unemploymentRule, spread*unemploymentShare),
	}

	hourlyRate := p.hourlyRate(gross, hours)

	return dto.PayslipRecord{
		EmployeeName: p.employeeName(),
		EmployeeID:   p.employeeID(),
		Period:       p.period(),
		WorkHours:    dto.NewWorkHours(hours, overtime),
		Salary: dto.Salary{
			Gross:      gross,
			Net:        net,
			HourlyRate: &hourlyRate,
		},
		Deductions:   dto.NewDeductions(components),
		VacationDays: p.vacationDays(),
		Provenance:   p.provenance,
	}
}

type payslipParser struct {
	text       string
	provenance map[string]dto.Provenance
}

func (p *payslipParser) mark(field string, extracted bool) {
	if extracted {
		p.provenance[field] = dto.ProvenanceExtracted
	} else {
		p.provenance[field] = dto.ProvenanceHeuristic
	}
}

// positiveAmount returns the labelled value when it is greater than zero, else fallback.
func (p *payslipParser) positiveAmount(rule *fieldRule, fallback float64) float64 {
	if v, ok := rule.findAmount(p.text); ok && v > 0 {
		p.mark(rule.field, true)
		return v
	}
	p.mark(rule.field, false)
	return fallback
}

// printedAmount accepts an explicit zero. "Überstunden 0,00" or "Lohnsteuer 0,00"
// is a real value, unlike a zero gross amount.
func (p *payslipParser) printedAmount(rule *fieldRule, fallback float64) float64 {
	if v, ok := rule.findAmount(p.text); ok && v >= 0 {
		p.mark(rule.field, true)
		return v
	}
	p.mark(rule.field, false)
	return fallback
}

func (p *payslipParser) hourlyRate(gross, hours float64) float64 {
	if v, ok := hourlyRateRule.findAmount(p.text); ok && v > 0 {
		p.mark(dto.FieldHourlyRate, true)
		return v
	}
	p.mark(dto.FieldHourlyRate, false)
	if hours <= 0 {
		return 0
	}
	return Round2(gross / hours)
}

func (p *payslipParser) employeeName() string {
	if raw, ok := nameRule.find(p.text); ok {
		if name := cleanName(raw); isCleanName(name) {
			p.mark(dto.FieldEmployeeName, true)
			return name
		}
	}
	p.mark(dto.FieldEmployeeName, false)
	return UnknownValue
}

// employeeID is optional; a missing id is left empty rather than guessed.
func (p *payslipParser) employeeID() string {
	if id, ok := employeeIDRule.find(p.text); ok {
		p.mark(dto.FieldEmployeeID, true)
		return id
	}
	if m := employeeCodeRegex.FindStringSubmatch(p.text); len(m) > 1 {
		p.mark(dto.FieldEmployeeID, true)
		return strings.ToUpper(m[1])
	}
	return ""
}

func (p *payslipParser) period() string {
	if period, ok := periodRule.find(p.text); ok {
		p.mark(dto.FieldPeriod, true)
		return period
	}
	p.mark(dto.FieldPeriod, false)
	return UnknownValue
}

func (p *payslipParser) vacationDays() *dto.VacationDays {
	days := &dto.VacationDays{Taken: 0, Remaining: DefaultVacationRemaining}
	found := false
	if v, ok := vacationTakenRule.findAmount(p.text); ok && v >= 0 {
		days.Taken = v
		found = true
	}
	if v, ok := vacationRemainingRule.findAmount(p.text); ok && v >= 0 {
		days.Remaining = v
		found = true
	}
	p.mark(dto.FieldVacationDays, found)
	return days
}
