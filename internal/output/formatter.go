// Package output renders stacklens reports as JSON, Markdown or styled
// terminal text.
package output

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/julianshen/stacklens/internal/analyzer"
	"github.com/julianshen/stacklens/internal/explain"
	"github.com/julianshen/stacklens/internal/quiz"
	"github.com/julianshen/stacklens/internal/recommend"
)

// Report is the envelope every command hands to a formatter. Sections left
// nil are not rendered.
type Report struct {
	ID              string                     `json:"id"`
	Target          string                     `json:"target"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
	Analysis        *analyzer.AnalysisResult   `json:"analysis,omitempty"`
	Recommendations *recommend.Recommendations `json:"recommendations,omitempty"`
	AWS             []recommend.Suggestion     `json:"aws,omitempty"`
	Explanation     *explain.Explanation       `json:"explanation,omitempty"`
	Quiz            *quiz.Result               `json:"quiz,omitempty"`
}

// NewReport creates a report for target with a fresh ID.
func NewReport(target string) *Report {
	return &Report{
		ID:          uuid.New().String(),
		Target:      target,
		GeneratedAt: time.Now().UTC(),
	}
}

// Formatter formats a Report into output bytes.
type Formatter interface {
	Format(r *Report) ([]byte, error)
}

// New returns the formatter for format ("terminal", "markdown" or "json").
// color is "auto", "always" or "never"; auto styles only when out is a terminal.
func New(format, color string, out *os.File) (Formatter, error) {
	switch format {
	case "json":
		return NewJSONFormatter(), nil
	case "markdown":
		return NewMarkdownFormatter(), nil
	case "terminal", "":
		styled, width := false, defaultWidth
		if out != nil && term.IsTerminal(int(out.Fd())) {
			if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
				width = w
			}
			styled = color != "never"
		} else {
			styled = color == "always"
		}
		return NewTerminalFormatter(styled, width)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
