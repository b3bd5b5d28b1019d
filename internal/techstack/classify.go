// Package techstack derives a project's languages, frameworks and tools from
// its file list and package.json, using fixed rule tables.
package techstack

import (
	"path"
	"sort"
	"strings"

	"github.com/julianshen/stacklens/internal/manifest"
)

// LanguageEntry counts the files sharing one known extension.
type LanguageEntry struct {
	Name      string `json:"name"`
	Extension string `json:"fileExtension"`
	Count     int    `json:"count"`
}

// Entry is a detected framework or tool. Version is set only when the
// entry came from the manifest.
type Entry struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// TechStack is the classifier output.
type TechStack struct {
	Languages  []LanguageEntry `json:"languages"`
	Frameworks []Entry         `json:"frameworks"`
	Tools      []Entry         `json:"tools"`
}

// HasTool reports whether a tool named name was detected.
func (s TechStack) HasTool(name string) bool {
	for _, t := range s.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasToolIn reports whether any detected tool belongs to category c.
func (s TechStack) HasToolIn(c Category) bool {
	for _, t := range s.Tools {
		if CategoryOf(t.Name) == c {
			return true
		}
	}
	return false
}

// Names returns every detected language, framework and tool name in output order.
func (s TechStack) Names() []string {
	names := make([]string, 0, len(s.Languages)+len(s.Frameworks)+len(s.Tools))
	for _, l := range s.Languages {
		names = append(names, l.Name)
	}
	for _, f := range s.Frameworks {
		names = append(names, f.Name)
	}
	for _, t := range s.Tools {
		names = append(names, t.Name)
	}
	return names
}

// Classify builds the TechStack for files and an optional manifest.
// The output is a pure function of its inputs.
func Classify(files []string, m *manifest.Manifest) TechStack {
	stack := TechStack{
		Languages:  Languages(files),
		Frameworks: []Entry{},
		Tools:      []Entry{},
	}

	seen := map[string]bool{}
	add := func(kind Kind, e Entry) {
		if seen[e.Name] {
			return
		}
		seen[e.Name] = true
		if kind == Framework {
			stack.Frameworks = append(stack.Frameworks, e)
		} else {
			stack.Tools = append(stack.Tools, e)
		}
	}

	if m != nil {
		for _, rule := range manifestRules {
			for _, candidate := range rule.Candidates {
				if version, ok := m.Lookup(candidate); ok {
					add(rule.Kind, Entry{Name: rule.Name, Version: version})
					break
				}
			}
		}
	}

	for _, rule := range patternRules {
		if seen[rule.Name] {
			continue
		}
		for _, f := range files {
			// Contains also covers suffix matches such as ".jsx".
			if strings.Contains(f, rule.Pattern) {
				add(rule.Kind, Entry{Name: rule.Name})
				break
			}
		}
	}

	return stack
}

// Languages builds the extension histogram, dropping unknown extensions.
// Entries are sorted by count descending, then extension ascending.
func Languages(files []string) []LanguageEntry {
	counts := map[string]int{}
	for _, f := range files {
		ext := strings.ToLower(path.Ext(f))
		if _, ok := languageNames[ext]; ok {
			counts[ext]++
		}
	}

	langs := make([]LanguageEntry, 0, len(counts))
	for ext, n := range counts {
		langs = append(langs, LanguageEntry{Name: languageNames[ext], Extension: ext, Count: n})
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Count != langs[j].Count {
			return langs[i].Count > langs[j].Count
		}
		return langs[i].Extension < langs[j].Extension
	})
	return langs
}
