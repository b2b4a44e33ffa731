package dto

import (
	"mime/multipart"
	"strings"
)

// PayslipUploadRequest represents a multipart PDF upload
type PayslipUploadRequest struct {
	File      *multipart.FileHeader
	Password  string
	SessionID string
}

// Validate performs basic validation on the request
func (r *PayslipUploadRequest) Validate() error {
	if r.File == nil {
		return ErrMissingFile
	}
	if !strings.HasSuffix(strings.ToLower(r.File.Filename), ".pdf") {
		return ErrUnsupportedFile
	}
	return nil
}

// ExtractTextRequest carries text that was already pulled out of a document.
type ExtractTextRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId,omitempty"`
}

// CompareRequest carries both sides of a comparison.
type CompareRequest struct {
	Payslip  PayslipRecord    `json:"payslip"`
	Contract ContractBaseline `json:"contract"`
}

// TaxValidationRequest asks for the plausibility checks of one payslip.
type TaxValidationRequest struct {
	Payslip  PayslipRecord `json:"payslip"`
	TaxClass string        `json:"taxClass"`
	State    string        `json:"state"`
	Year     int           `json:"year"`
}
