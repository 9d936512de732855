package worker

import (
	"fmt"
	"strings"

	"titledoctor/features/job"
)

// RenderReport builds the plain-text email body. The output is
// deterministic: one numbered section per video, in input order, carrying
// exactly the original title, improved title, rationale, and URL.
func RenderReport(channelName string, titles []job.ImprovedTitle) string {
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "YouTube Title Doctor - Improved Titles for %q\n", channelName)
	b.WriteString(rule + "\n\n")

	for i, t := range titles {
		fmt.Fprintf(&b, "Video %d:\n", i+1)
		b.WriteString("--------------------------\n")
		fmt.Fprintf(&b, "Original Title: %s\n", t.OriginalTitle)
		fmt.Fprintf(&b, "Improved Title: %s\n", t.ImprovedTitle)
		fmt.Fprintf(&b, "Why: %s\n", t.Rationale)
		fmt.Fprintf(&b, "Video URL: %s\n\n", t.URL)
	}

	b.WriteString(rule + "\n\n")
	b.WriteString("Powered by YouTube Title Doctor\n")
	return b.String()
}
