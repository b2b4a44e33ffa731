package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	anthropicMaxTokens    = 2048
)

var ErrNoTextContent = errors.New("no text content in model response")

const payslipSystemPrompt = `Du bist ein Assistent, der deutsche Gehaltsabrechnungen in strukturierte Daten überführt.
Antworte ausschließlich mit einem JSON-Objekt, ohne Markdown-Codeblock und ohne Erklärungen.`

const payslipPromptTemplate = `Analysiere diese deutsche Gehaltsabrechnung und extrahiere die Daten als JSON.

TEXT:
%s

Gib NUR gültiges JSON zurück, mit genau dieser Struktur:
{
  "employeeName": "Name des Mitarbeiters oder null",
  "employeeId": "Personalnummer oder null",
  "period": "Abrechnungsmonat, z.B. 'November 2024', oder null",
  "workHours": {
    "regular": Zahl der regulären Stunden,
    "overtime": Zahl der Überstunden,
    "total": Gesamtstunden
  },
  "salary": {
    "gross": Bruttolohn als Zahl,
    "net": Nettolohn als Zahl,
    "hourlyRate": Stundenlohn als Zahl oder null
  },
  "deductions": {
    "taxAmount": Lohnsteuer als Zahl,
    "socialSecurity": Sozialversicherung als Zahl,
    "healthInsurance": Krankenversicherung als Zahl,
    "pensionInsurance": Rentenversicherung als Zahl,
    "unemploymentInsurance": Arbeitslosenversicherung als Zahl,
    "totalDeductions": Gesamte Abzüge als Zahl
  },
  "vacationDays": {
    "taken": Genommene Urlaubstage,
    "remaining": Verbleibende Urlaubstage
  }
}

Beträge sind Zahlen im JSON-Format (Punkt als Dezimaltrennzeichen, keine Tausenderpunkte).
Wenn ein Wert nicht gefunden wird, setze null.`

// AnthropicClient extracts payslip JSON through the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	logger *slog.Logger
}

// NewAnthropicClient creates a client for the given key and model. Extra request
// options (base URL, HTTP client) are passed through to the SDK.
func NewAnthropicClient(apiKey, model string, logger *slog.Logger, opts ...option.RequestOption) *AnthropicClient {
	if model == "" {
		model = DefaultAnthropicModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	// no SDK retries; the caller's context bounds the whole call
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &AnthropicClient{
		client: anthropic.NewClient(reqOpts...),
		model:  model,
		logger: logger,
	}
}

func (c *AnthropicClient) ExtractPayslipJSON(ctx context.Context, text string) ([]byte, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: payslipSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(payslipPromptTemplate, text))),
		},
	})
	if err != nil {
		c.logger.Warn("llm.anthropic.error", "model", c.model, "err", err)
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			c.logger.Debug("llm.anthropic.response",
				"model", c.model,
				"size", len(block.Text),
				"tokens_in", message.Usage.InputTokens,
				"tokens_out", message.Usage.OutputTokens,
			)
			return []byte(block.Text), nil
		}
	}
	return nil, ErrNoTextContent
}
