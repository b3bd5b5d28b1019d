// Package catalog holds the static content keyed off technology names:
// learning resources, AWS service suggestions, quiz questions and
// plain-language descriptions. Keys are lower-cased technology names.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed content
var content embed.FS

// Resource is a learning link. Constraint, when set, is a semver range the
// detected version must satisfy for the link to apply.
type Resource struct {
	Title      string `yaml:"title" json:"title"`
	URL        string `yaml:"url" json:"url"`
	Constraint string `yaml:"constraint,omitempty" json:"-"`
}

// Service is an AWS service suggestion.
type Service struct {
	Name   string `yaml:"name" json:"name"`
	Reason string `yaml:"reason" json:"reason"`
}

// Question is a multiple-choice quiz question. Answer indexes Choices.
type Question struct {
	Tech    string   `yaml:"-" json:"tech"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Choices []string `yaml:"choices" json:"choices"`
	Answer  int      `yaml:"answer" json:"answer"`
}

// document is the shape of every YAML file under content/.
type document struct {
	Resources    map[string][]Resource `yaml:"resources"`
	AWS          map[string][]Service  `yaml:"aws"`
	Questions    map[string][]Question `yaml:"questions"`
	Descriptions map[string]string     `yaml:"descriptions"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	resources    map[string][]Resource
	services     map[string][]Service
	questions    map[string][]Question
	descriptions map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics on embedded content
// errors since these indicate a build-time bug.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(content)
		if err != nil {
			panic("catalog: embedded content error: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load merges every .yaml file in fsys into one catalog.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		resources:    map[string][]Resource{},
		services:     map[string][]Service{},
		questions:    map[string][]Question{},
		descriptions: map[string]string{},
	}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return walkErr
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := c.merge(path, data); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Parse builds a catalog from a single YAML document.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{
		resources:    map[string][]Resource{},
		services:     map[string][]Service{},
		questions:    map[string][]Question{},
		descriptions: map[string]string{},
	}
	if err := c.merge("catalog", data); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) merge(name string, data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	for tech, list := range doc.Resources {
		for _, r := range list {
			if r.Constraint == "" {
				continue
			}
			if _, err := semver.NewConstraint(r.Constraint); err != nil {
				return fmt.Errorf("%s: resource %q for %s: invalid constraint %q: %w", name, r.Title, tech, r.Constraint, err)
			}
		}
		key := Key(tech)
		c.resources[key] = append(c.resources[key], list...)
	}
	for tech, list := range doc.AWS {
		key := Key(tech)
		c.services[key] = append(c.services[key], list...)
	}
	for tech, list := range doc.Questions {
		key := Key(tech)
		for i, q := range list {
			if len(q.Choices) < 2 || q.Answer < 0 || q.Answer >= len(q.Choices) {
				return fmt.Errorf("%s: question %d for %s: answer %d out of range", name, i, tech, q.Answer)
			}
			q.Tech = key
			c.questions[key] = append(c.questions[key], q)
		}
	}
	for tech, desc := range doc.Descriptions {
		c.descriptions[Key(tech)] = desc
	}
	return nil
}

// Key normalises a technology name for lookup.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resources returns the learning resources for a technology, in file order.
func (c *Catalog) Resources(name string) []Resource {
	return c.resources[Key(name)]
}

// Services returns the AWS suggestions for a technology.
func (c *Catalog) Services(name string) []Service {
	return c.services[Key(name)]
}

// Questions returns the quiz questions for a technology.
func (c *Catalog) Questions(name string) []Question {
	return c.questions[Key(name)]
}

// Describe returns the plain-language description of a technology.
func (c *Catalog) Describe(name string) (string, bool) {
	d, ok := c.descriptions[Key(name)]
	return d, ok
}

// Techs lists every technology with at least one resource, sorted.
func (c *Catalog) Techs() []string {
	return slices.Sorted(maps.Keys(c.resources))
}
