package worker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"titledoctor/features/job"
)

func TestRenderReport_RoundTrip(t *testing.T) {
	titles := []job.ImprovedTitle{
		{VideoID: "v1", OriginalTitle: "My first vlog", ImprovedTitle: "I Quit My Job to Vlog", Rationale: "Adds stakes", URL: "https://www.youtube.com/watch?v=v1"},
		{VideoID: "v2", OriginalTitle: "Cooking pasta", ImprovedTitle: "10-Minute Pasta", Rationale: "Specific value", URL: "https://www.youtube.com/watch?v=v2"},
	}

	text := RenderReport("My Channel", titles)

	// Every field of every entry appears, in input order, with no loss.
	for _, title := range titles {
		assert.Contains(t, text, "Original Title: "+title.OriginalTitle)
		assert.Contains(t, text, "Improved Title: "+title.ImprovedTitle)
		assert.Contains(t, text, "Why: "+title.Rationale)
		assert.Contains(t, text, "Video URL: "+title.URL)
	}
	assert.Less(t,
		strings.Index(text, "My first vlog"),
		strings.Index(text, "Cooking pasta"),
		"entries must keep input order")

	assert.Contains(t, text, `Improved Titles for "My Channel"`)
	assert.Contains(t, text, "Video 1:")
	assert.Contains(t, text, "Video 2:")
}

func TestRenderReport_Deterministic(t *testing.T) {
	titles := []job.ImprovedTitle{{VideoID: "v1", OriginalTitle: "A", ImprovedTitle: "B", Rationale: "C", URL: "u"}}
	assert.Equal(t, RenderReport("Chan", titles), RenderReport("Chan", titles))
}
