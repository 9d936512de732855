package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemInstruction = "You are a YouTube SEO and engagement expert who helps creators write better video titles"

// Generator calls Gemini in JSON response mode. The caller owns prompt
// construction and output validation; this adapter only moves text.
type Generator struct {
	client *genai.Client
	model  string
	apiKey string
}

func NewGenerator(ctx context.Context, apiKey string) (*Generator, error) {
	g := &Generator{model: "gemini-2.5-flash", apiKey: apiKey}
	if apiKey == "" {
		return g, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		slog.ErrorContext(ctx, "generation failed", "model", g.model, "error", err)
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
