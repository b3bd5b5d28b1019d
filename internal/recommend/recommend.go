// Package recommend maps a detected tech stack to learning resources and
// AWS service suggestions drawn from the catalog.
package recommend

import (
	"github.com/Masterminds/semver/v3"

	"github.com/julianshen/stacklens/internal/catalog"
	"github.com/julianshen/stacklens/internal/manifest"
	"github.com/julianshen/stacklens/internal/techstack"
)

// DefaultLimit caps the resources listed per technology.
const DefaultLimit = 3

// ResourceLookup returns the catalog resources for a technology name.
type ResourceLookup func(tech string) []catalog.Resource

// ServiceLookup returns the catalog AWS services for a technology name.
type ServiceLookup func(tech string) []catalog.Service

// Item is the resource list for one detected technology.
type Item struct {
	Tech      string             `json:"tech"`
	Version   string             `json:"version,omitempty"`
	Resources []catalog.Resource `json:"resources"`
}

// Recommendations groups items by stack category.
type Recommendations struct {
	Languages  []Item `json:"languages"`
	Frameworks []Item `json:"frameworks"`
	Tools      []Item `json:"tools"`
}

// Empty reports whether no category has any item.
func (r Recommendations) Empty() bool {
	return len(r.Languages) == 0 && len(r.Frameworks) == 0 && len(r.Tools) == 0
}

// Recommend lists up to limit resources for every detected technology that
// the catalog knows. Technologies are keyed by lower-cased name and kept in
// stack order. A resource with a version constraint is listed only when the
// detected version satisfies it; with no usable version it is left out.
func Recommend(stack techstack.TechStack, lookup ResourceLookup, limit int) Recommendations {
	if limit < 1 {
		limit = DefaultLimit
	}
	recs := Recommendations{Languages: []Item{}, Frameworks: []Item{}, Tools: []Item{}}
	seen := map[string]bool{}

	collect := func(dst *[]Item, name, version string) {
		key := catalog.Key(name)
		if seen[key] {
			return
		}
		seen[key] = true

		resources := applicable(lookup(key), version, limit)
		if len(resources) == 0 {
			return
		}
		*dst = append(*dst, Item{Tech: key, Version: version, Resources: resources})
	}

	for _, l := range stack.Languages {
		collect(&recs.Languages, l.Name, "")
	}
	for _, f := range stack.Frameworks {
		collect(&recs.Frameworks, f.Name, f.Version)
	}
	for _, t := range stack.Tools {
		collect(&recs.Tools, t.Name, t.Version)
	}
	return recs
}

func applicable(resources []catalog.Resource, versionSpec string, limit int) []catalog.Resource {
	var version *semver.Version
	if versionSpec != "" {
		if v, err := manifest.MinVersion(versionSpec); err == nil {
			version = v
		}
	}

	out := make([]catalog.Resource, 0, min(limit, len(resources)))
	for _, r := range resources {
		if len(out) == limit {
			break
		}
		if r.Constraint != "" {
			if version == nil {
				continue
			}
			c, err := semver.NewConstraint(r.Constraint)
			if err != nil || !c.Check(version) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Suggestion is one AWS service with the technologies that led to it.
type Suggestion struct {
	Service string   `json:"service"`
	Reason  string   `json:"reason"`
	Techs   []string `json:"techs"`
}

// AWSServices returns deduplicated AWS suggestions for the stack. A service
// appears once, with the reason from the first technology that suggested it,
// in order of first appearance.
func AWSServices(stack techstack.TechStack, lookup ServiceLookup) []Suggestion {
	out := []Suggestion{}
	index := map[string]int{}
	seenTech := map[string]bool{}

	for _, name := range stack.Names() {
		key := catalog.Key(name)
		if seenTech[key] {
			continue
		}
		seenTech[key] = true

		for _, svc := range lookup(key) {
			if i, ok := index[svc.Name]; ok {
				out[i].Techs = append(out[i].Techs, key)
				continue
			}
			index[svc.Name] = len(out)
			out = append(out, Suggestion{Service: svc.Name, Reason: svc.Reason, Techs: []string{key}})
		}
	}
	return out
}
