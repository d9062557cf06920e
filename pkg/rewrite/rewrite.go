// Package rewrite applies a version mapping to manifest dependencies.
//
// [Apply] decides, per declaration, whether a release governs it and pins it
// to the released version:
//
//   - git declarations are always pinned, dropping git, branch, tag and rev
//   - path declarations are pinned only with OverwriteLocalPaths
//   - registry declarations are pinned when their version differs
//   - workspace-inherited declarations are left to the workspace root
//
// In check mode nothing is modified; every declaration that would change is
// reported as a [Mismatch].
package rewrite

import (
	"github.com/paritytech/psvm/pkg/manifest"
)

// Options controls [Apply].
type Options struct {
	// OverwriteLocalPaths also pins declarations with a path source.
	OverwriteLocalPaths bool
	// CheckOnly reports mismatches instead of modifying declarations.
	CheckOnly bool
}

// Mismatch is a declaration that does not match the mapping.
type Mismatch struct {
	Name     string // declared name
	Table    string
	Expected string
	Actual   string // current version or source description
}

// Change records a pinned declaration.
type Change struct {
	Name  string
	Table string
	From  string
	To    string
}

// Outcome summarizes an [Apply] call.
type Outcome struct {
	// Changed reports whether any declaration was modified. Always false in
	// check mode.
	Changed bool
	// Mismatches lists, in declaration order, the declarations that would
	// change. Always empty outside check mode.
	Mismatches []Mismatch
	// Changes lists the pinned declarations.
	Changes []Change
	// Matched counts the declarations governed by the mapping.
	Matched int
}

// OK reports whether a check found no mismatches.
func (o Outcome) OK() bool { return len(o.Mismatches) == 0 }

// Apply pins every declaration of deps whose crate is in versions.
func Apply(versions map[string]string, deps []*manifest.Dependency, opts Options) Outcome {
	var out Outcome
	for _, dep := range deps {
		want, ok := versions[dep.LookupName()]
		if !ok || !governed(dep, opts) {
			continue
		}
		out.Matched++

		if !needsPin(dep, want) {
			continue
		}
		if opts.CheckOnly {
			out.Mismatches = append(out.Mismatches, Mismatch{
				Name:     dep.Name,
				Table:    dep.Table,
				Expected: want,
				Actual:   dep.Describe(),
			})
			continue
		}

		from := dep.Describe()
		dep.Pin(want)
		out.Changed = true
		out.Changes = append(out.Changes, Change{Name: dep.Name, Table: dep.Table, From: from, To: want})
	}
	return out
}

func governed(dep *manifest.Dependency, opts Options) bool {
	switch dep.Source() {
	case manifest.SourceWorkspace:
		return false
	case manifest.SourcePath:
		return opts.OverwriteLocalPaths
	}
	return true
}

func needsPin(dep *manifest.Dependency, want string) bool {
	switch dep.Source() {
	case manifest.SourceGit, manifest.SourcePath:
		return true
	}
	return dep.Version != want
}
