package service

import (
	"context"
	"sync"
)

const validAIResponse = `{
  "employeeName": "Max Mustermann",
  "employeeId": "EMP-12345",
  "period": "November 2024",
  "workHours": {"regular": 160, "overtime": 8, "total": 168},
  "salary": {"gross": 3500, "net": 2245.5, "hourlyRate": 21.88},
  "deductions": {
    "taxAmount": 625,
    "socialSecurity": 315,
    "healthInsurance": 185.5,
    "pensionInsurance": 94,
    "unemploymentInsurance": 35,
    "totalDeductions": 1254.5
  },
  "vacationDays": {"taken": 12, "remaining": 18}
}`

const payslipText = `Gehaltsabrechnung Name: Erika Musterfrau Personalnummer: 4711
Abrechnungsmonat: Oktober 2025 Arbeitsstunden: 150,00 Überstunden: 0,00
Bruttogehalt: 3.000,00 Lohnsteuer: 400,00 Sozialversicherung: 300,00
Krankenversicherung: 150,00 Rentenversicherung: 100,00 Arbeitslosenversicherung: 50,00
Nettogehalt: 2.000,00`

type fakeClient struct {
	mu    sync.Mutex
	body  []byte
	err   error
	block bool
	calls int
	texts []string
}

func (f *fakeClient) ExtractPayslipJSON(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.body, f.err
}

type fakePDF struct {
	pages []string
	err   error
}

func (f *fakePDF) ExtractPages(pdfData []byte, password string) ([]string, error) {
	return f.pages, f.err
}
