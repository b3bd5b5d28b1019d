// Package manifest reads the project's package.json dependency manifest.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
)

// Filename is the manifest looked up at the project root.
const Filename = "package.json"

// Manifest holds the parts of package.json the analyzer cares about.
// The maps are never nil.
type Manifest struct {
	Name            string
	Version         string
	Dependencies    map[string]string
	DevDependencies map[string]string
	Scripts         map[string]string
}

// ParseError reports a manifest that exists but is not a JSON object.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Reason)
}

// Read loads package.json from root. It returns nil, nil when the file
// does not exist and a *ParseError when it cannot be parsed.
func Read(root string) (*Manifest, error) {
	path := filepath.Join(root, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", Filename, err)
	}
	return Parse(Filename, data)
}

// Parse decodes manifest content. name is only used in error messages.
func Parse(name string, data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: name, Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ParseError{Path: name, Reason: "top-level value is not an object"}
	}

	m := &Manifest{
		Name:    doc.Get("name").String(),
		Version: doc.Get("version").String(),
	}
	m.Dependencies = stringMap(doc.Get("dependencies"))
	m.DevDependencies = stringMap(doc.Get("devDependencies"))
	m.Scripts = stringMap(doc.Get("scripts"))
	return m, nil
}

// stringMap collects the string-valued members of an object. Non-object
// values and non-string members are ignored.
func stringMap(v gjson.Result) map[string]string {
	out := map[string]string{}
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			out[key.String()] = value.String()
		}
		return true
	})
	return out
}

// Lookup returns the version declared for name, checking dependencies
// before devDependencies. A nil manifest has no dependencies.
func (m *Manifest) Lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	if v, ok := m.Dependencies[name]; ok {
		return v, true
	}
	v, ok := m.DevDependencies[name]
	return v, ok
}

// HasDependencies reports whether the manifest declares any dependency.
func (m *Manifest) HasDependencies() bool {
	return m != nil && len(m.Dependencies)+len(m.DevDependencies) > 0
}

// MinVersion returns the lowest version a range specifier such as "^18.2.0",
// "~4.17" or ">=1.0.0 <2" admits. Tags, URLs and workspace references
// ("latest", "git+https://...", "workspace:*") return an error.
func MinVersion(spec string) (*semver.Version, error) {
	s := strings.TrimSpace(spec)
	if i := strings.IndexAny(s, " |,"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimLeft(s, "^~>=v")
	s = strings.ReplaceAll(strings.ReplaceAll(s, ".x", ".0"), ".*", ".0")
	if s == "" || s == "*" {
		return nil, fmt.Errorf("version %q has no lower bound", spec)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", spec, err)
	}
	return v, nil
}
