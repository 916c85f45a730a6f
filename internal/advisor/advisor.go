// Package advisor sends an uploaded budget plan to Gemini and returns
// free-text feedback. The call is opaque text-in/text-out; the one error
// distinction callers rely on is credential configuration versus generic
// failure, so they can prompt for reconfiguration instead of showing a
// generic banner.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for plan feedback.
const DefaultModelName = "gemini-2.5-flash"

// ErrNotConfigured marks missing or rejected credentials on the AI path.
var ErrNotConfigured = errors.New("advisor: API key not configured or invalid")

// Advisor produces feedback on budget plans.
type Advisor struct {
	apiKey string
	model  string
}

// New creates an advisor. An empty apiKey is allowed at construction; Analyze
// reports ErrNotConfigured when called without one.
func New(apiKey, model string) *Advisor {
	if model == "" {
		model = DefaultModelName
	}
	return &Advisor{apiKey: apiKey, model: model}
}

// Analyze sends the plan text to the model and returns its feedback.
func (a *Advisor) Analyze(ctx context.Context, planText string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      a.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", classify(fmt.Errorf("Analyze: create genai client: %w", err))
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(planText)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", classify(fmt.Errorf("Analyze: generate content: %w", err))
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("Analyze: empty response from model")
	}
	return text, nil
}

func buildPrompt(planText string) string {
	var b strings.Builder
	b.WriteString("You are a friendly and encouraging financial coach named BudgetBuddy AI.\n")
	b.WriteString("Analyze the following personal budget plan. Provide constructive feedback,\n")
	b.WriteString("identify potential areas for improvement, and offer actionable tips.\n")
	b.WriteString("Be positive and supportive in your tone.\n")
	b.WriteString("Structure your response in Markdown format. Include headings for sections\n")
	b.WriteString("like \"Strengths\", \"Areas for Improvement\", and \"Actionable Tips\".\n\n")
	b.WriteString("Here is the user's budget plan:\n---\n")
	b.WriteString(planText)
	b.WriteString("\n---\n")
	return b.String()
}

// classify inspects the error text for the credential-configuration class.
// The upstream client does not expose a typed error for this, so message
// inspection is the available signal.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"api key", "api_key", "credential", "unauthenticated", "permission_denied", "permission denied"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
	}
	return err
}
