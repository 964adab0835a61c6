// Package filter holds the pure inclusion and exclusion rules of a dump run.
// Nothing here touches the filesystem, so every decision can be tested from names and paths alone.
package filter

import (
	"strings"

	"github.com/temirov/projdump/internal/utils"
)

// DefaultIDEPrefix is the directory-name prefix of editor project metadata that is never descended into.
const DefaultIDEPrefix = ".idea"

// Decision tells the walker what to do with a child directory.
type Decision int

const (
	// Descend visits the child directory later in the walk.
	Descend Decision = iota
	// Prune removes the child directory and everything beneath it from the walk.
	Prune
)

// String returns the lower-case decision name.
func (decision Decision) String() string {
	switch decision {
	case Descend:
		return "descend"
	case Prune:
		return "prune"
	default:
		return "unknown"
	}
}

// ChildDecision pairs a child directory name with the decision made for it.
type ChildDecision struct {
	Name     string
	Decision Decision
}

// Rules is the filter configuration of a single run.
type Rules struct {
	// IncludeDirs lists names whose presence in a directory path makes the directory reported.
	// A name listed here is also always descended into.
	IncludeDirs []string
	// IgnoreFiles lists exact file names that are never listed.
	IgnoreFiles []string
	// IgnoreDirs lists directory names that are pruned unless also listed in IncludeDirs.
	IgnoreDirs []string
	// IDEPrefix prunes any directory whose name starts with it. Empty disables the prefix check.
	IDEPrefix string
}

// DefaultRules returns a fresh copy of the default rules.
func DefaultRules() Rules {
	return Rules{
		IncludeDirs: []string{"cmd", "pkg", "test"},
		IgnoreFiles: []string{"go.mod", "go.sum"},
		IgnoreDirs:  []string{"tmp", "node_modules", DefaultIDEPrefix},
		IDEPrefix:   DefaultIDEPrefix,
	}
}

// DecideDirectory returns Descend when name is explicitly included, or when it is neither
// ignored nor prefixed with the IDE metadata prefix. Every other name is pruned.
func (rules Rules) DecideDirectory(name string) Decision {
	if utils.ContainsString(rules.IncludeDirs, name) {
		return Descend
	}
	if utils.ContainsString(rules.IgnoreDirs, name) {
		return Prune
	}
	if rules.IDEPrefix != "" && strings.HasPrefix(name, rules.IDEPrefix) {
		return Prune
	}
	return Descend
}

// DecideChildren returns one decision per child directory name, in input order.
func (rules Rules) DecideChildren(names []string) []ChildDecision {
	decisions := make([]ChildDecision, 0, len(names))
	for _, name := range names {
		decisions = append(decisions, ChildDecision{Name: name, Decision: rules.DecideDirectory(name)})
	}
	return decisions
}

// ReportsDirectory reports whether any included name occurs as a substring of walkedPath.
// The test runs against the whole accumulated path, not the final path element, so a
// directory named "pkgs" or one nested anywhere below "cmd" matches too.
func (rules Rules) ReportsDirectory(walkedPath string) bool {
	for _, includedName := range rules.IncludeDirs {
		if strings.Contains(walkedPath, includedName) {
			return true
		}
	}
	return false
}

// SkipsFile reports whether a file with the given name is left out of the report.
func (rules Rules) SkipsFile(name string) bool {
	return utils.ContainsString(rules.IgnoreFiles, name)
}

// Normalized returns a copy with empty names dropped and duplicates removed, keeping first-seen order.
func (rules Rules) Normalized() Rules {
	return Rules{
		IncludeDirs: normalizeNames(rules.IncludeDirs),
		IgnoreFiles: normalizeNames(rules.IgnoreFiles),
		IgnoreDirs:  normalizeNames(rules.IgnoreDirs),
		IDEPrefix:   strings.TrimSpace(rules.IDEPrefix),
	}
}

func normalizeNames(names []string) []string {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		trimmed = append(trimmed, name)
	}
	return utils.DeduplicatePatterns(trimmed)
}
