package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aashish23092/payslip-verification/dto"
	"github.com/Aashish23092/payslip-verification/utils"
)

const (
	// MinConfidentTextLength is the text length below which extraction still
	// runs but the result is flagged as low confidence.
	MinConfidentTextLength = 50
	rawTextPreviewLength   = 500
)

var errNoPages = errors.New("pdf has no text pages")

// ExtractionService turns document text into a payslip record. The structured
// extractor is always tried first; the label parser is the fallback.
type ExtractionService struct {
	pdfProcessor PDFProcessor
	extractor    *StructuredExtractor
	logger       *slog.Logger
}

func NewExtractionService(pdfProcessor PDFProcessor, extractor *StructuredExtractor, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = NewStructuredExtractor(nil, 0, logger)
	}
	return &ExtractionService{
		pdfProcessor: pdfProcessor,
		extractor:    extractor,
		logger:       logger,
	}
}

// ExtractFromPDF reads the text layer of a PDF and extracts a record from it.
// A PDF without a usable text layer fails with dto.ErrEmptyText.
func (s *ExtractionService) ExtractFromPDF(ctx context.Context, data []byte, password string) (*dto.ExtractionResult, error) {
	if s.pdfProcessor == nil {
		return nil, s.fail(dto.ExtractionTrace{}, errors.New("no pdf processor configured"))
	}

	pages, err := s.pdfProcessor.ExtractPages(data, password)
	if err != nil {
		s.logger.Warn("extract.pdf.failed", "err", err, "size", len(data))
		return nil, s.fail(dto.ExtractionTrace{}, err)
	}
	if len(pages) == 0 {
		return nil, s.fail(dto.ExtractionTrace{}, errNoPages)
	}

	s.logger.Debug("extract.pdf.pages", "pages", len(pages))
	return s.ExtractFromPages(ctx, pages)
}

// ExtractFromPages joins page texts with single spaces and extracts from the result.
func (s *ExtractionService) ExtractFromPages(ctx context.Context, pages []string) (*dto.ExtractionResult, error) {
	return s.ExtractFromText(ctx, strings.Join(pages, " "))
}

// ExtractFromText runs the extraction pipeline on already extracted text.
// The only error it returns is a *dto.ExtractionError for empty text; every
// other problem ends up as a warning on the trace.
func (s *ExtractionService) ExtractFromText(ctx context.Context, text string) (*dto.ExtractionResult, error) {
	trace := dto.ExtractionTrace{
		StageUsed: dto.StageNone,
		State:     dto.StateAwaitingText,
		Warnings:  []dto.Warning{},
	}

	trimmed := strings.TrimSpace(text)
	trace.TextLength = len([]rune(trimmed))
	trace.RawTextPreview = preview(trimmed, rawTextPreviewLength)

	if trimmed == "" {
		return nil, s.fail(trace, nil)
	}

	trace.State = dto.StateTextChecked
	if trace.TextLength < MinConfidentTextLength {
		s.logger.Warn("extract.text.short", "length", trace.TextLength)
		trace.Warnings = append(trace.Warnings, dto.Warning{
			Code:    dto.WarnShortText,
			Message: fmt.Sprintf("document text has only %d characters", trace.TextLength),
		})
	}

	outcome := s.extractor.Extract(ctx, trimmed)
	trace.State = dto.StateAIAttempted

	var record dto.PayslipRecord
	if outcome.Accepted() {
		record = *outcome.Record
		trace.StageUsed = dto.StageAI
		trace.Warnings = append(trace.Warnings, outcome.Warnings...)
	} else {
		trace.Warnings = append(trace.Warnings, dto.Warning{
			Code:    outcome.Code,
			Message: causeMessage(outcome.Cause),
		})
		record = utils.ParsePayslipText(trimmed)
		trace.StageUsed = dto.StageFallback
	}

	if guessed := record.HeuristicFields(); len(guessed) > 0 {
		trace.Warnings = append(trace.Warnings, dto.Warning{
			Code:    dto.WarnHeuristicDefault,
			Message: "placeholder values used for: " + strings.Join(guessed, ", "),
		})
	}

	if record.Salary.Gross == 0 || record.WorkHours.Total == 0 {
		trace.Warnings = append(trace.Warnings, dto.Warning{
			Code:    dto.WarnDegradedRecord,
			Message: "record has zero gross salary or zero hours",
		})
	}

	trace.State = dto.StateResolved
	s.logger.Info("extract.done",
		"stage", trace.StageUsed,
		"text_length", trace.TextLength,
		"warnings", len(trace.Warnings),
	)
	return &dto.ExtractionResult{Record: record, Trace: trace}, nil
}

func (s *ExtractionService) fail(trace dto.ExtractionTrace, cause error) error {
	trace.State = dto.StateFailed
	trace.StageUsed = dto.StageNone
	if trace.Warnings == nil {
		trace.Warnings = []dto.Warning{}
	}
	s.logger.Warn("extract.failed", "reason", dto.ReasonEmptyText, "err", cause)
	return &dto.ExtractionError{Reason: dto.ReasonEmptyText, Trace: trace, Cause: cause}
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

func causeMessage(err error) string {
	if err == nil {
		return "structured extraction failed"
	}
	return err.Error()
}
