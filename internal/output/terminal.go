package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 100

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}).
	Bold(true).
	Padding(0, 1)

// TerminalFormatter renders the Markdown report through glamour. When not
// styled it emits the Markdown unchanged.
type TerminalFormatter struct {
	md       *MarkdownFormatter
	renderer *glamour.TermRenderer
}

// NewTerminalFormatter creates a TerminalFormatter wrapping at width.
func NewTerminalFormatter(styled bool, width int) (*TerminalFormatter, error) {
	f := &TerminalFormatter{md: NewMarkdownFormatter()}
	if !styled {
		return f, nil
	}
	if width <= 0 {
		width = defaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	f.renderer = r
	return f, nil
}

// Format renders the Report for a terminal.
func (f *TerminalFormatter) Format(r *Report) ([]byte, error) {
	md, err := f.md.Format(r)
	if err != nil {
		return nil, err
	}
	if f.renderer == nil {
		return md, nil
	}
	body, err := f.renderer.Render(string(md))
	if err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return []byte(titleStyle.Render("stacklens") + "\n" + body), nil
}
