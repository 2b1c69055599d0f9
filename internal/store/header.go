package store

import (
	"strings"

	"github.com/pders01/leetsync/internal/models"
)

// Header renders the descriptive comment block placed above the code
func Header(a models.Artifact) string {
	start, end, prefix := "/*", "*/", " * "
	if a.Language.CommentStyle() == models.CommentTripleQuote {
		start, end, prefix = `"""`, `"""`, ""
	}

	d := a.Detail
	lines := []string{
		start,
		prefix + "Problem: " + d.ProblemID + ". " + d.ProblemTitle,
		prefix + "Difficulty: " + string(d.Difficulty),
		prefix + "URL: " + models.ProblemURL(a.BaseURL, d.ProblemSlug),
	}
	if len(d.Topics) > 0 {
		lines = append(lines, prefix+"Topics: "+strings.Join(d.Topics, ", "))
	}
	if a.Runtime != "" {
		lines = append(lines, prefix+"Runtime: "+a.Runtime)
	}
	if a.Memory != "" {
		lines = append(lines, prefix+"Memory: "+a.Memory)
	}
	lines = append(lines, prefix+"Date: "+a.Date.Format("2006-01-02"), end, "")

	return strings.Join(lines, "\n")
}

// Render returns the full file content, always ending in a newline
func Render(a models.Artifact) string {
	var b strings.Builder
	if a.IncludeHeader {
		b.WriteString(Header(a))
	}
	b.WriteString(a.Detail.Code)

	content := b.String()
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
