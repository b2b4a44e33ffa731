package dto

import (
	"errors"
	"fmt"
)

// WarningCode classifies a non-fatal condition raised during extraction.
type WarningCode string

const (
	WarnShortText          WarningCode = "low-confidence-short-text"
	WarnAIRejected         WarningCode = "ai-response-rejected"
	WarnAITransport        WarningCode = "ai-transport-error"
	WarnDegradedRecord     WarningCode = "degraded-record"
	WarnHeuristicDefault   WarningCode = "heuristic-default"
	WarnHoursTotalMismatch WarningCode = "hours-total-mismatch"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Stage names reported in ExtractionTrace.StageUsed.
const (
	StageAI       = "ai"
	StageFallback = "fallback"
	StageNone     = "none"
)

// ExtractionState is a state of the extraction state machine.
type ExtractionState string

const (
	StateAwaitingText ExtractionState = "awaiting-text"
	StateTextChecked  ExtractionState = "text-checked"
	StateAIAttempted  ExtractionState = "ai-attempted"
	StateResolved     ExtractionState = "resolved"
	StateFailed       ExtractionState = "failed"
)

// ExtractionTrace describes how a record was produced. It is returned with
// every extraction instead of being kept anywhere global.
type ExtractionTrace struct {
	StageUsed      string          `json:"stageUsed"`
	State          ExtractionState `json:"state"`
	RawTextPreview string          `json:"rawTextPreview"`
	TextLength     int             `json:"textLength"`
	Warnings       []Warning       `json:"warnings"`
}

// HasWarning reports whether a warning with the given code was recorded.
func (t ExtractionTrace) HasWarning(code WarningCode) bool {
	for _, w := range t.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

type ExtractionResult struct {
	Record PayslipRecord   `json:"payslip"`
	Trace  ExtractionTrace `json:"trace"`
}

// FailureReason is the typed cause of a failed extraction.
type FailureReason string

const ReasonEmptyText FailureReason = "empty-text"

var ErrEmptyText = errors.New("document contains no extractable text")

// ExtractionError is returned when extraction cannot produce any record.
type ExtractionError struct {
	Reason FailureReason
	Trace  ExtractionTrace
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Reason)
}

func (e *ExtractionError) Unwrap() []error {
	errs := []error{}
	if e.Reason == ReasonEmptyText {
		errs = append(errs, ErrEmptyText)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
