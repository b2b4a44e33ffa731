package client

import "context"

// StructuredExtractionClient asks an external service to turn payslip text into
// the payslip JSON document. Implementations return the raw response body; the
// caller is responsible for validating it.
type StructuredExtractionClient interface {
	ExtractPayslipJSON(ctx context.Context, text string) ([]byte, error)
}
