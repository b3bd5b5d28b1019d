package output

import (
	"fmt"
	"strings"

	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/explain"
	"github.com/julianshen/stacklens/internal/quality"
	"github.com/julianshen/stacklens/internal/quiz"
	"github.com/julianshen/stacklens/internal/recommend"
	"github.com/julianshen/stacklens/internal/techstack"
)

const noneDetected = "_none detected_"

// MarkdownFormatter outputs a Report as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the Report as Markdown.
func (f *MarkdownFormatter) Format(r *Report) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# stacklens: %s\n", r.Target)

	if a := r.Analysis; a != nil {
		b.WriteString("\n## Project structure\n\n")
		if a.Structure == "" {
			b.WriteString(noneDetected + "\n")
		} else {
			b.WriteString("```text\n" + a.Structure + "```\n")
		}
		writeStack(&b, a.TechStack)
		writeInsights(&b, a.CodeQuality)
	}
	if r.Recommendations != nil {
		writeRecommendations(&b, *r.Recommendations)
	}
	if r.AWS != nil {
		writeAWS(&b, r.AWS)
	}
	if r.Explanation != nil {
		writeExplanation(&b, r.Explanation)
	}
	if r.Quiz != nil {
		writeQuiz(&b, r.Quiz)
	}

	fmt.Fprintf(&b, "\n---\n*Report %s*\n", r.ID)
	return []byte(b.String()), nil
}

func writeStack(b *strings.Builder, s techstack.TechStack) {
	b.WriteString("\n## Tech stack\n\n### Languages\n\n")
	if len(s.Languages) == 0 {
		b.WriteString(noneDetected + "\n")
	}
	for _, l := range s.Languages {
		files := "files"
		if l.Count == 1 {
			files = "file"
		}
		fmt.Fprintf(b, "- %s (`%s`): %d %s\n", l.Name, l.Extension, l.Count, files)
	}
	writeEntries(b, "Frameworks", s.Frameworks)
	writeEntries(b, "Tools", s.Tools)
}

func writeEntries(b *strings.Builder, title string, entries []techstack.Entry) {
	fmt.Fprintf(b, "\n### %s\n\n", title)
	if len(entries) == 0 {
		b.WriteString(noneDetected + "\n")
	}
	for _, e := range entries {
		if e.Version != "" {
			fmt.Fprintf(b, "- %s `%s`\n", e.Name, e.Version)
		} else {
			fmt.Fprintf(b, "- %s\n", e.Name)
		}
	}
}

func writeInsights(b *strings.Builder, insights []quality.Insight) {
	b.WriteString("\n## Code quality\n\n")
	if len(insights) == 0 {
		b.WriteString("_No findings._\n")
	}
	for _, in := range insights {
		label := string(in.Type)
		if in.Severity != "" {
			label = string(in.Severity) + " " + label
		}
		fmt.Fprintf(b, "- **%s**: %s\n", label, in.Message)
	}
}

func writeRecommendations(b *strings.Builder, recs recommend.Recommendations) {
	b.WriteString("\n## Learning resources\n")
	for _, group := range []struct {
		title string
		items []recommend.Item
	}{
		{"Languages", recs.Languages},
		{"Frameworks", recs.Frameworks},
		{"Tools", recs.Tools},
	} {
		fmt.Fprintf(b, "\n### %s\n\n", group.title)
		if len(group.items) == 0 {
			b.WriteString(noneDetected + "\n")
		}
		for _, item := range group.items {
			fmt.Fprintf(b, "- **%s**\n", item.Tech)
			for _, res := range item.Resources {
				writeResource(b, res)
			}
		}
	}
}

func writeResource(b *strings.Builder, r catalog.Resource) {
	fmt.Fprintf(b, "  - [%s](%s)\n", r.Title, r.URL)
}

func writeAWS(b *strings.Builder, services []recommend.Suggestion) {
	b.WriteString("\n## AWS services\n\n")
	if len(services) == 0 {
		b.WriteString(noneDetected + "\n")
	}
	for _, s := range services {
		fmt.Fprintf(b, "- **%s**: %s (for %s)\n", s.Service, s.Reason, strings.Join(s.Techs, ", "))
	}
}

func writeExplanation(b *strings.Builder, e *explain.Explanation) {
	b.WriteString("\n## What this project is\n\n")
	b.WriteString(e.Summary)

	if len(e.Files) > 0 {
		b.WriteString("\n### Main source files\n\n")
		for _, o := range e.Files {
			names := make([]string, 0, len(o.Symbols))
			for _, s := range o.Symbols {
				names = append(names, s.Name)
			}
			fmt.Fprintf(b, "- `%s`", o.Path)
			if len(names) > 0 {
				fmt.Fprintf(b, " defines %s", strings.Join(names, ", "))
			}
			if len(o.Imports) > 0 {
				fmt.Fprintf(b, "; uses %s", strings.Join(o.Imports, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(e.Scripts) > 0 {
		b.WriteString("\n### npm scripts\n\n")
		for _, s := range e.Scripts {
			fmt.Fprintf(b, "- `npm run %s`: `%s`", s.Name, s.Command)
			if len(s.Programs) > 0 {
				fmt.Fprintf(b, " runs %s", strings.Join(s.Programs, ", "))
			}
			b.WriteString("\n")
		}
	}
}

func writeQuiz(b *strings.Builder, r *quiz.Result) {
	b.WriteString("\n## Quiz\n\n")
	if r.Total == 0 {
		b.WriteString("No questions for this stack.\n")
		return
	}
	fmt.Fprintf(b, "You answered %d of %d correctly.\n", r.Correct, r.Total)
	for _, m := range r.Missed {
		fmt.Fprintf(b, "\n- %s\n  Answer: %s\n", m.Question.Prompt, m.Question.Choices[m.Question.Answer])
	}
}
