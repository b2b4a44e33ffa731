package dto

import "errors"

// Custom errors
var (
	ErrMissingEmployeeName = errors.New("employeeName is required")
	ErrMissingHourlyRate   = errors.New("hourlyRate must be greater than zero")
	ErrNegativeValue       = errors.New("contract values must not be negative")
	ErrMissingFile         = errors.New("file is required")
	ErrUnsupportedFile     = errors.New("invalid file type. Supported: PDF")
	ErrIncompleteSession   = errors.New("session needs both a payslip and a contract")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractResponse is returned by the extraction endpoints.
type ExtractResponse struct {
	Payslip   PayslipRecord   `json:"payslip"`
	Trace     ExtractionTrace `json:"trace"`
	SessionID string          `json:"sessionId,omitempty"`
}

// SessionResponse is returned when a session is created or read.
type SessionResponse struct {
	Session        Session `json:"session"`
	ReadyToCompare bool    `json:"readyToCompare"`
}
