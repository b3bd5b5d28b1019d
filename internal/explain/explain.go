// Package explain turns an analysis result into a plain-language walkthrough:
// a templated stack summary, outlines of the main source files and what each
// npm script runs.
package explain

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"sort"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"github.com/julianshen/stacklens/internal/analyzer"
	"github.com/julianshen/stacklens/internal/parser"
)

// DefaultMaxFiles caps the number of source files outlined.
const DefaultMaxFiles = 5

// Options configures Explain.
type Options struct {
	MaxFiles int
	// Describe returns a one-line description of a technology.
	Describe func(tech string) (string, bool)
	Logger   *slog.Logger
}

// Tech is one detected framework or tool with its description.
type Tech struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Script is an npm script and the programs its command line invokes.
type Script struct {
	Name     string   `json:"name"`
	Command  string   `json:"command"`
	Programs []string `json:"programs"`
	Error    string   `json:"error,omitempty"`
}

// Explanation is the walkthrough for one project.
type Explanation struct {
	Summary      string            `json:"summary"`
	Technologies []Tech            `json:"technologies"`
	Files        []*parser.Outline `json:"files"`
	Scripts      []Script          `json:"scripts"`
}

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(
	`{{if .Name}}{{.Name}}{{else}}This project{{end}} {{if .Languages}}is written mainly in {{index .Languages 0}}{{with .Others}}, with some {{join . ", "}}{{end}}.{{else}}has no source files in a recognised language.{{end}}
{{- if .Frameworks}}
It is built on {{join .Frameworks ", "}}.{{end}}
{{- if .Tools}}
Supporting tools: {{join .Tools ", "}}.{{end}}
{{- range .Techs}}{{if .Description}}
- {{.Name}}: {{.Description}}{{end}}{{end}}
`))

type summaryData struct {
	Name       string
	Languages  []string
	Others     []string
	Frameworks []string
	Tools      []string
	Techs      []Tech
}

// Explain builds the walkthrough. Source files are read from fsys, which
// is rooted at the project directory. Unreadable or unparseable files are
// skipped.
func Explain(ctx context.Context, res *analyzer.AnalysisResult, fsys fs.FS, opts Options) (*Explanation, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	describe := opts.Describe
	if describe == nil {
		describe = func(string) (string, bool) { return "", false }
	}

	exp := &Explanation{Technologies: []Tech{}, Files: []*parser.Outline{}, Scripts: []Script{}}

	data := summaryData{}
	if res.Manifest != nil {
		data.Name = res.Manifest.Name
	}
	for _, l := range res.TechStack.Languages {
		if !slices.Contains(data.Languages, l.Name) {
			data.Languages = append(data.Languages, l.Name)
		}
	}
	if len(data.Languages) > 1 {
		data.Others = data.Languages[1:]
	}
	for _, f := range res.TechStack.Frameworks {
		data.Frameworks = append(data.Frameworks, f.Name)
		exp.Technologies = append(exp.Technologies, tech(f.Name, f.Version, describe))
	}
	for _, t := range res.TechStack.Tools {
		data.Tools = append(data.Tools, t.Name)
		exp.Technologies = append(exp.Technologies, tech(t.Name, t.Version, describe))
	}
	data.Techs = exp.Technologies

	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}
	exp.Summary = buf.String()

	p := parser.NewParser()
	for _, f := range SourceFiles(res.Files, opts.MaxFiles) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			logger.Debug("skipping unreadable file", "path", f, "error", err)
			continue
		}
		o, err := p.Outline(ctx, f, src)
		if err != nil {
			logger.Debug("skipping unparseable file", "path", f, "error", err)
			continue
		}
		exp.Files = append(exp.Files, o)
	}

	if res.Manifest != nil {
		names := make([]string, 0, len(res.Manifest.Scripts))
		for name := range res.Manifest.Scripts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			exp.Scripts = append(exp.Scripts, ParseScript(name, res.Manifest.Scripts[name]))
		}
	}
	return exp, nil
}

func tech(name, version string, describe func(string) (string, bool)) Tech {
	desc, _ := describe(name)
	return Tech{Name: name, Version: version, Description: desc}
}

var entryNames = []string{"index", "main", "app", "server"}

// SourceFiles picks up to limit outlinable files. Entry points (index,
// main, app, server) come first, then shallower paths, then by name.
// Test files are left out.
func SourceFiles(files []string, limit int) []string {
	var candidates []string
	for _, f := range files {
		if parser.Supported(f) && !isTest(f) {
			candidates = append(candidates, f)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if ea, eb := isEntry(a), isEntry(b); ea != eb {
			return ea
		}
		if da, db := strings.Count(a, "/"), strings.Count(b, "/"); da != db {
			return da < db
		}
		return a < b
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func isEntry(f string) bool {
	base := path.Base(f)
	return slices.Contains(entryNames, strings.TrimSuffix(base, path.Ext(base)))
}

func isTest(f string) bool {
	base := path.Base(f)
	return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") || strings.HasSuffix(base, "_test.go")
}

// runners are package-manager commands whose interesting program is the
// word after them.
var runners = map[string]bool{"npx": true, "pnpx": true, "bunx": true}

// ParseScript lists the programs a script's shell command runs, in order of
// first use. "npm run build" style invocations are kept whole.
func ParseScript(name, command string) Script {
	s := Script{Name: name, Command: command, Programs: []string{}}

	f, err := syntax.NewParser().Parse(strings.NewReader(command), name)
	if err != nil {
		s.Error = err.Error()
		return s
	}

	seen := map[string]bool{}
	syntax.Walk(f, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		words := make([]string, 0, 3)
		for _, w := range call.Args[:min(3, len(call.Args))] {
			words = append(words, w.Lit())
		}
		program := invoked(words)
		if program != "" && !seen[program] {
			seen[program] = true
			s.Programs = append(s.Programs, program)
		}
		return true
	})
	return s
}

func invoked(words []string) string {
	first := words[0]
	switch {
	case first == "":
		return ""
	case runners[first] && len(words) > 1:
		return words[1]
	case (first == "npm" || first == "yarn" || first == "pnpm") && len(words) > 2 && words[1] == "run":
		return strings.Join(words[:3], " ")
	}
	return first
}
