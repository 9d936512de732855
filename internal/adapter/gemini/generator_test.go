package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_MissingAPIKey(t *testing.T) {
	g, err := NewGenerator(context.Background(), "")
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gemini API key not configured")
}

func TestResponseText(t *testing.T) {
	t.Run("concatenates text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text(`{"titles":`), genai.Text(`[]}`)},
				},
			}},
		}
		assert.Equal(t, `{"titles":[]}`, responseText(resp))
	})

	t.Run("nil response", func(t *testing.T) {
		assert.Equal(t, "", responseText(nil))
	})

	t.Run("no candidates", func(t *testing.T) {
		assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	})

	t.Run("candidate without content", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}
		assert.Equal(t, "", responseText(resp))
	})
}
