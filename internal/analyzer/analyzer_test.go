package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/stacklens/internal/pathres"
	"github.com/julianshen/stacklens/internal/quality"
	"github.com/julianshen/stacklens/internal/scan"
	"github.com/julianshen/stacklens/internal/techstack"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func posixResolver() *pathres.Resolver {
	return pathres.New(pathres.WithConvention(pathres.Posix))
}

func rules(insights []quality.Insight) []string {
	out := make([]string, 0, len(insights))
	for _, in := range insights {
		out = append(out, in.Rule)
	}
	return out
}

func TestAnalyzeExpressProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"name":"api","dependencies":{"express":"^4.18.0"}}`)
	writeFile(t, dir, "index.js", "const express = require('express')\nconst app = express()\napp.get('/', h)\napp.listen(3000)\n// done\n")
	writeFile(t, dir, "README.md", "# api\n")
	writeFile(t, dir, ".gitignore", "node_modules\n")
	writeFile(t, dir, "node_modules/express/index.js", "module.exports = {}\n")

	res, err := Analyze(context.Background(), dir, Options{Resolver: posixResolver()})
	require.NoError(t, err)

	assert.Equal(t, []string{".gitignore", "README.md", "index.js", "package.json"}, res.Files)
	assert.Equal(t, []techstack.Entry{{Name: "Express", Version: "^4.18.0"}}, res.TechStack.Frameworks)
	assert.Empty(t, res.TechStack.Tools)
	assert.Equal(t, []techstack.LanguageEntry{
		{Name: "JavaScript", Extension: ".js", Count: 1},
		{Name: "JSON", Extension: ".json", Count: 1},
		{Name: "Markdown", Extension: ".md", Count: 1},
	}, res.TechStack.Languages)

	got := rules(res.CodeQuality)
	assert.NotContains(t, got, quality.RuleMissingReadme)
	assert.NotContains(t, got, quality.RuleMissingGitignore)
	assert.Contains(t, got, quality.RuleNoLintTool)
	assert.Contains(t, got, quality.RuleNoTestFramework)
	assert.Contains(t, got, quality.RuleMissingLockFile)
	assert.NotContains(t, got, quality.RuleLargeFile)

	assert.True(t, strings.HasPrefix(res.Structure, "Root directory:\n"))
	assert.Contains(t, res.Structure, "  index.js\n")
	assert.NotContains(t, res.Structure, "node_modules")
	require.NotNil(t, res.Manifest)
	assert.Equal(t, "api", res.Manifest.Name)
}

func TestAnalyzeMissingPathIsFatal(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := Analyze(context.Background(), missing, Options{Resolver: posixResolver()})
	require.Error(t, err)

	var nf *pathres.PathNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, missing, nf.Resolved)
}

func TestAnalyzeBrokenManifestBecomesInsight(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", "{not json")
	writeFile(t, dir, "src/App.jsx", "export default () => null\n")

	res, err := Analyze(context.Background(), dir, Options{Resolver: posixResolver()})
	require.NoError(t, err)

	assert.Nil(t, res.Manifest)
	got := rules(res.CodeQuality)
	assert.Equal(t, quality.RuleManifestInvalid, got[len(got)-1])
	// Pattern rules still run without a manifest.
	assert.Equal(t, []techstack.Entry{{Name: "React"}}, res.TechStack.Frameworks)
}

func TestAnalyzeEmptyDirectory(t *testing.T) {
	res, err := Analyze(context.Background(), t.TempDir(), Options{Resolver: posixResolver()})
	require.NoError(t, err)

	assert.Empty(t, res.Files)
	assert.Equal(t, "", res.Structure)
	assert.NotNil(t, res.TechStack.Languages)
	assert.NotNil(t, res.TechStack.Frameworks)
	assert.NotNil(t, res.TechStack.Tools)
	assert.Contains(t, rules(res.CodeQuality), quality.RuleMissingReadme)
}

func TestAnalyzeHonoursScanOptions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.js", "x\n")
	writeFile(t, dir, "a/deep.js", "x\n")

	opts := scan.DefaultOptions()
	opts.MaxDepth = 0
	res, err := Analyze(context.Background(), dir, Options{Resolver: posixResolver(), Scan: &opts})
	require.NoError(t, err)
	assert.Equal(t, []string{"top.js"}, res.Files)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	writeFile(t, dir, "a/b.js", "x\n")
	_, err := Analyze(ctx, dir, Options{Resolver: posixResolver()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
