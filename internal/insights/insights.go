// Package insights generates short financial tips for a month of entries
// using a generative-AI backend.
package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"zenfin/internal/core"
)

// Messages returned to the user when no tips can be generated. They are
// surfaced as regular insight text rather than errors.
const (
	MsgNoExpenses  = "Adicione seus gastos para que eu possa traçar sua jornada financeira ideal."
	MsgEmptyReply  = "Não foi possível gerar insights no momento. Continue acompanhando seus gastos!"
	MsgUnavailable = "Erro ao conectar com a inteligência artificial. Tente novamente mais tarde."
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

// Generator produces text from a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EntrySource lists the entries of a month.
type EntrySource interface {
	Month(ctx context.Context, year int, month time.Month) ([]core.Entry, core.Summary, []core.CategoryAmount, error)
}

// Advisor turns a month of expenses into practical tips in Portuguese.
type Advisor struct {
	entries   EntrySource
	generator Generator
	logger    *slog.Logger
}

func NewAdvisor(entries EntrySource, generator Generator, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{entries: entries, generator: generator, logger: logger}
}

// MonthlyInsight asks the generator for tips on the month's expenses.
// Generator failures are logged and reported as a friendly message, not as
// an error; only failures to read the entries themselves propagate.
func (a *Advisor) MonthlyInsight(ctx context.Context, year int, month time.Month) (string, error) {
	entries, _, _, err := a.entries.Month(ctx, year, month)
	if err != nil {
		return "", fmt.Errorf("loading month entries: %w", err)
	}

	expenses := entries[:0:0]
	for _, e := range entries {
		if e.Category != core.CategoryRevenue {
			expenses = append(expenses, e)
		}
	}
	if len(expenses) == 0 {
		return MsgNoExpenses, nil
	}

	text, err := a.generator.GenerateText(ctx, buildPrompt(expenses))
	if err != nil {
		a.logger.WarnContext(ctx, "insight generation failed", "error", err)
		return MsgUnavailable, nil
	}
	if strings.TrimSpace(text) == "" {
		return MsgEmptyReply, nil
	}
	return text, nil
}

func buildPrompt(expenses []core.Entry) string {
	parts := make([]string, 0, len(expenses))
	for _, e := range expenses {
		amount := strconv.FormatFloat(e.Amount, 'f', -1, 64)
		parts = append(parts, fmt.Sprintf("%s: R$ %s (%s)", e.Description, amount, e.Category))
	}
	return "Como um consultor financeiro sênior, analise estes gastos mensais e forneça " +
		"3 dicas práticas e curtas em português para otimizar as finanças do usuário. " +
		"Seja amigável e motivador. Gastos: " + strings.Join(parts, ", ")
}

// GeminiGenerator implements Generator over the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator backed by the Gemini API. An empty
// model falls back to DefaultModel.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}
