package explain

import (
	"context"
	"strings"
	"testing"

	"github.com/psanford/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/stacklens/internal/analyzer"
	"github.com/julianshen/stacklens/internal/manifest"
	"github.com/julianshen/stacklens/internal/techstack"
)

func newFS(t *testing.T, files map[string]string) *memfs.FS {
	t.Helper()
	mfs := memfs.New()
	for name, content := range files {
		if i := strings.LastIndex(name, "/"); i > 0 {
			require.NoError(t, mfs.MkdirAll(name[:i], 0o755))
		}
		require.NoError(t, mfs.WriteFile(name, []byte(content), 0o644))
	}
	return mfs
}

func expressResult() *analyzer.AnalysisResult {
	return &analyzer.AnalysisResult{
		TechStack: techstack.TechStack{
			Languages: []techstack.LanguageEntry{
				{Name: "JavaScript", Extension: ".js", Count: 2},
				{Name: "JSON", Extension: ".json", Count: 1},
			},
			Frameworks: []techstack.Entry{{Name: "Express", Version: "^4.18.0"}},
			Tools:      []techstack.Entry{{Name: "Nodemon", Version: "^3.0.0"}},
		},
		Files: []string{"index.js", "lib/routes.js", "package.json", "test/app.test.js"},
		Manifest: &manifest.Manifest{
			Name: "api",
			Scripts: map[string]string{
				"start": "node index.js",
				"dev":   "nodemon index.js",
			},
		},
	}
}

func TestExplainExpressProject(t *testing.T) {
	fsys := newFS(t, map[string]string{
		"index.js":         "const express = require('express')\nconst routes = require('./lib/routes')\nfunction main() {}\n",
		"lib/routes.js":    "module.exports = function routes(app) {}\n",
		"test/app.test.js": "test('x', () => {})\n",
	})
	describe := func(name string) (string, bool) {
		if name == "Express" {
			return "a web framework", true
		}
		return "", false
	}

	exp, err := Explain(context.Background(), expressResult(), fsys, Options{Describe: describe})
	require.NoError(t, err)

	assert.Equal(t, "api is written mainly in JavaScript, with some JSON.\n"+
		"It is built on Express.\n"+
		"Supporting tools: Nodemon.\n"+
		"- Express: a web framework\n", exp.Summary)

	require.Len(t, exp.Technologies, 2)
	assert.Equal(t, Tech{Name: "Express", Version: "^4.18.0", Description: "a web framework"}, exp.Technologies[0])

	require.Len(t, exp.Files, 2)
	assert.Equal(t, "index.js", exp.Files[0].Path)
	assert.Equal(t, []string{"express", "./lib/routes"}, exp.Files[0].Imports)
	assert.Equal(t, "lib/routes.js", exp.Files[1].Path)

	require.Len(t, exp.Scripts, 2)
	assert.Equal(t, "dev", exp.Scripts[0].Name)
	assert.Equal(t, []string{"nodemon"}, exp.Scripts[0].Programs)
	assert.Equal(t, "start", exp.Scripts[1].Name)
	assert.Equal(t, []string{"node"}, exp.Scripts[1].Programs)
}

func TestExplainEmptyProject(t *testing.T) {
	exp, err := Explain(context.Background(), &analyzer.AnalysisResult{}, memfs.New(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "This project has no source files in a recognised language.\n", exp.Summary)
	assert.Empty(t, exp.Files)
	assert.NotNil(t, exp.Scripts)
}

func TestExplainSkipsMissingFiles(t *testing.T) {
	res := &analyzer.AnalysisResult{Files: []string{"gone.js", "here.js"}}
	fsys := newFS(t, map[string]string{"here.js": "function here() {}\n"})

	exp, err := Explain(context.Background(), res, fsys, Options{})
	require.NoError(t, err)
	require.Len(t, exp.Files, 1)
	assert.Equal(t, "here.js", exp.Files[0].Path)
}

func TestExplainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := &analyzer.AnalysisResult{Files: []string{"a.js"}}

	_, err := Explain(ctx, res, newFS(t, map[string]string{"a.js": ""}), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceFilesOrdering(t *testing.T) {
	files := []string{"README.md", "src/util/deep.ts", "src/b.ts", "src/a.ts", "src/index.ts", "server.js", "src/a.spec.ts"}
	assert.Equal(t, []string{"server.js", "src/index.ts", "src/a.ts", "src/b.ts"}, SourceFiles(files, 4))
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"node server.js", []string{"node"}},
		{"jest --coverage && eslint .", []string{"jest", "eslint"}},
		{"NODE_ENV=production node dist/index.js", []string{"node"}},
		{"npm run build && npm run test", []string{"npm run build", "npm run test"}},
		{"npx prisma migrate deploy", []string{"prisma"}},
		{"tsc; tsc --watch", []string{"tsc"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			s := ParseScript("x", tt.command)
			assert.Empty(t, s.Error)
			assert.Equal(t, tt.want, s.Programs)
		})
	}
}

func TestParseScriptSyntaxError(t *testing.T) {
	s := ParseScript("broken", "echo 'unterminated")
	assert.NotEmpty(t, s.Error)
	assert.Empty(t, s.Programs)
}
