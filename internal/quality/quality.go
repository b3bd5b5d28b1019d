// Package quality runs hygiene heuristics over a scanned project and reports
// advisory insights.
package quality

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/julianshen/stacklens/internal/techstack"
)

// Type classifies an insight.
type Type string

const (
	TypeStructure    Type = "structure"
	TypeQuality      Type = "quality"
	TypeBestPractice Type = "best-practice"
	TypePositive     Type = "positive"
	TypeSuggestion   Type = "suggestion"
)

// Severity ranks an insight. Positive insights carry none.
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rule codes identify which check produced an insight.
const (
	RuleMissingReadme     = "missing-readme"
	RuleMissingGitignore  = "missing-gitignore"
	RuleFlatLayout        = "flat-layout"
	RuleNoLintTool        = "no-lint-tool"
	RuleNoTestFramework   = "no-test-framework"
	RuleNoTestFiles       = "no-test-files"
	RuleMissingLockFile   = "missing-lock-file"
	RuleMissingEnvExample = "missing-env-example"
	RuleLargeFile         = "large-file"
	RuleManifestInvalid   = "manifest-invalid"
	RuleGoodHygiene       = "good-hygiene"
)

// Insight is one advisory message. Callers filter on Type, Severity and
// Rule; Message is for humans only.
type Insight struct {
	Type     Type     `json:"type"`
	Severity Severity `json:"severity,omitempty"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
}

// Reader returns the content of a file named by its scanned relative path.
type Reader interface {
	ReadFile(name string) ([]byte, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(name string) ([]byte, error)

// ReadFile calls f(name).
func (f ReaderFunc) ReadFile(name string) ([]byte, error) { return f(name) }

const (
	// flatLayoutThreshold is the file count above which a missing src/ is reported.
	flatLayoutThreshold = 5
	// testFilesThreshold is the file count above which missing tests are reported.
	testFilesThreshold = 3
	// maxInspectedFiles caps how many script files are read for line counts.
	maxInspectedFiles = 10
	// largeFileLines is the line count above which a file is reported.
	largeFileLines = 300
)

var (
	sourceRoots = []string{"src/", "lib/", "app/"}
	testDirs    = []string{"test", "tests", "__tests__", "spec"}
	testMarkers = []string{".test.", ".spec.", "_test."}
	lockFiles   = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb", "npm-shrinkwrap.json"}
	envFiles    = []string{".env", ".env.example"}
	scriptExts  = map[string]bool{".js": true, ".jsx": true, ".ts": true, ".tsx": true, ".mjs": true, ".cjs": true}
)

const dependencyDir = "node_modules"

// Assessor runs the rule set.
type Assessor struct {
	logger *slog.Logger
}

// NewAssessor creates an Assessor. A nil logger discards diagnostics.
func NewAssessor(logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assessor{logger: logger}
}

// Assess evaluates every rule in order and returns the resulting insights.
// Order reflects check order, not severity.
func Assess(files []string, stack techstack.TechStack, reader Reader) []Insight {
	return NewAssessor(nil).Assess(files, stack, reader)
}

// Assess evaluates every rule in order and returns the resulting insights.
func (a *Assessor) Assess(files []string, stack techstack.TechStack, reader Reader) []Insight {
	insights := []Insight{}
	add := func(t Type, sev Severity, rule, msg string) {
		insights = append(insights, Insight{Type: t, Severity: sev, Rule: rule, Message: msg})
	}

	hasReadme := slices.ContainsFunc(files, func(f string) bool {
		return strings.HasPrefix(strings.ToLower(path.Base(f)), "readme")
	})
	if !hasReadme {
		add(TypeSuggestion, SeverityMedium, RuleMissingReadme,
			"No README file found. Add a README.md that explains what the project does and how to run it.")
	}

	hasGitignore := slices.Contains(files, ".gitignore")
	if !hasGitignore {
		add(TypeSuggestion, SeverityMedium, RuleMissingGitignore,
			"No .gitignore file found. Add one so dependencies, build output and secrets stay out of version control.")
	}

	organised := slices.ContainsFunc(files, func(f string) bool { return hasAnyPrefix(f, sourceRoots) })
	if !organised && countOutsideDependencies(files) > flatLayoutThreshold {
		add(TypeStructure, SeverityLow, RuleFlatLayout,
			"Source files are not grouped under src/, lib/ or app/. A top-level source directory keeps larger projects navigable.")
	}

	if !stack.HasToolIn(techstack.CategoryLint) {
		add(TypeBestPractice, SeverityMedium, RuleNoLintTool,
			"No lint tool detected. Consider adding ESLint to catch bugs early and keep the code style consistent.")
	}

	if !stack.HasToolIn(techstack.CategoryTest) {
		add(TypeBestPractice, SeverityMedium, RuleNoTestFramework,
			"No test framework detected. Consider adding Jest, Vitest or Mocha.")
	}

	hasTests := slices.ContainsFunc(files, isTestPath)
	if !hasTests && len(files) > testFilesThreshold {
		add(TypeQuality, SeverityMedium, RuleNoTestFiles,
			"No test files found. Add tests next to the code (for example app.test.js) or in a tests/ directory.")
	}

	if slices.Contains(files, "package.json") && !slices.ContainsFunc(files, func(f string) bool { return slices.Contains(lockFiles, f) }) {
		add(TypeBestPractice, SeverityLow, RuleMissingLockFile,
			"package.json is present but no lock file was found. Commit package-lock.json, yarn.lock or pnpm-lock.yaml for reproducible installs.")
	}

	if stack.HasToolIn(techstack.CategoryEnv) && !slices.ContainsFunc(files, func(f string) bool { return slices.Contains(envFiles, path.Base(f)) }) {
		add(TypeSuggestion, SeverityLow, RuleMissingEnvExample,
			"dotenv is used but no .env or .env.example file was found. Add a .env.example that documents the required variables.")
	}

	for _, large := range a.largeFiles(files, reader) {
		add(TypeQuality, SeverityMedium, RuleLargeFile,
			fmt.Sprintf("%s has %d lines. Consider splitting it into smaller modules.", large.path, large.lines))
	}

	if hasReadme && hasGitignore && hasTests {
		add(TypePositive, SeverityNone, RuleGoodHygiene,
			"The project has a README, a .gitignore and test files.")
	}

	return insights
}

// ManifestInsight reports a package.json that could not be parsed.
func ManifestInsight(err error) Insight {
	return Insight{
		Type:     TypeQuality,
		Severity: SeverityLow,
		Rule:     RuleManifestInvalid,
		Message:  fmt.Sprintf("package.json could not be parsed, so dependency-based detection was skipped (%v).", err),
	}
}

type lineCount struct {
	path  string
	lines int
}

// largeFiles reads at most maxInspectedFiles script files, in file-list
// order, and returns those over largeFileLines. Unreadable files are skipped.
func (a *Assessor) largeFiles(files []string, reader Reader) []lineCount {
	if reader == nil {
		return nil
	}
	var out []lineCount
	inspected := 0
	for _, f := range files {
		if inspected == maxInspectedFiles {
			break
		}
		if !scriptExts[strings.ToLower(path.Ext(f))] || inDependencies(f) {
			continue
		}
		inspected++

		data, err := reader.ReadFile(f)
		if err != nil {
			a.logger.Debug("skipping unreadable file", "path", f, "error", err)
			continue
		}
		if n := countLines(data); n > largeFileLines {
			out = append(out, lineCount{path: f, lines: n})
		}
	}
	return out
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// isTestPath reports whether f is a test file or lives in a test directory.
func isTestPath(f string) bool {
	segments := strings.Split(f, "/")
	for _, dir := range segments[:len(segments)-1] {
		if slices.Contains(testDirs, dir) {
			return true
		}
	}
	base := segments[len(segments)-1]
	for _, marker := range testMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}

func inDependencies(f string) bool {
	return slices.Contains(strings.Split(f, "/"), dependencyDir)
}

func countOutsideDependencies(files []string) int {
	n := 0
	for _, f := range files {
		if !inDependencies(f) {
			n++
		}
	}
	return n
}
