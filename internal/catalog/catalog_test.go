package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	assert.NotEmpty(t, c.Resources("React"))
	assert.NotEmpty(t, c.Resources("javascript"))
	assert.NotEmpty(t, c.Services("Express"))
	assert.NotEmpty(t, c.Questions("React"))

	desc, ok := c.Describe("Express")
	assert.True(t, ok)
	assert.Contains(t, desc, "Node.js")
}

func TestDefaultCatalogQuestionsAreValid(t *testing.T) {
	c := Default()
	for _, tech := range []string{"javascript", "typescript", "react", "express", "docker"} {
		for _, q := range c.Questions(tech) {
			assert.Equal(t, tech, q.Tech)
			assert.GreaterOrEqual(t, len(q.Choices), 2, q.Prompt)
			assert.Less(t, q.Answer, len(q.Choices), q.Prompt)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	c := Default()
	assert.Equal(t, c.Resources("next.js"), c.Resources(" Next.js "))
}

func TestUnknownTechIsEmpty(t *testing.T) {
	c := Default()
	assert.Empty(t, c.Resources("cobol"))
	_, ok := c.Describe("cobol")
	assert.False(t, ok)
}

func TestLoadMergesFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":    {Data: []byte("resources:\n  Go:\n    - title: Tour\n      url: https://go.dev/tour/\n")},
		"b.yaml":    {Data: []byte("resources:\n  go:\n    - title: Effective\n      url: https://go.dev/doc/effective_go\ndescriptions:\n  go: a language\n")},
		"notes.txt": {Data: []byte("ignored")},
	}

	c, err := Load(fsys)
	require.NoError(t, err)
	assert.Len(t, c.Resources("go"), 2)
	assert.Equal(t, []string{"go"}, c.Techs())
}

func TestParseRejectsBadConstraint(t *testing.T) {
	_, err := Parse([]byte("resources:\n  react:\n    - title: x\n      url: y\n      constraint: \">>> nope\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid constraint")
}

func TestParseRejectsAnswerOutOfRange(t *testing.T) {
	_, err := Parse([]byte("questions:\n  go:\n    - prompt: p\n      choices: [a, b]\n      answer: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("resources: [unclosed"))
	require.Error(t, err)
}
