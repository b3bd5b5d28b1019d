// Package structure renders a scanned file list as a directory listing.
package structure

import (
	"path"
	"sort"
	"strings"
)

// RootHeading labels the group of files that sit directly in the project root.
const RootHeading = "Root directory:"

// Group is the set of files sharing one parent directory.
type Group struct {
	Dir   string
	Files []string
}

// Groups partitions files by parent directory ("." for the root). Groups
// are sorted by directory and the base names inside each are sorted.
func Groups(files []string) []Group {
	byDir := map[string][]string{}
	for _, f := range files {
		dir := moduleFromPath(f)
		byDir[dir] = append(byDir[dir], path.Base(f))
	}

	groups := make([]Group, 0, len(byDir))
	for dir, names := range byDir {
		sort.Strings(names)
		groups = append(groups, Group{Dir: dir, Files: names})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Dir < groups[j].Dir })
	return groups
}

// Summarize renders files as one block per directory.
func Summarize(files []string) string {
	var b strings.Builder
	for i, g := range Groups(files) {
		if i > 0 {
			b.WriteString("\n")
		}
		if g.Dir == "." {
			b.WriteString(RootHeading)
		} else {
			b.WriteString(g.Dir + "/:")
		}
		b.WriteString("\n")
		for _, name := range g.Files {
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// moduleFromPath returns the slash-separated parent directory, "." at the root.
func moduleFromPath(relPath string) string {
	return path.Dir(strings.ReplaceAll(relPath, `\`, "/"))
}
