package versions

import (
	"slices"
	"strings"
)

// Mapping maps crate names to the version published for a release.
type Mapping map[string]string

// Names returns the crate names in lexical order.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Merge returns a new mapping holding every entry of m and the entries of
// other whose names m does not define.
func (m Mapping) Merge(other Mapping) Mapping {
	out := make(Mapping, len(m)+len(other))
	for name, v := range other {
		out[name] = v
	}
	for name, v := range m {
		out[name] = v
	}
	return out
}

// Entry is one row of a source document. It is implemented by [PlanEntry]
// and [LockfileEntry] only.
type Entry interface {
	CrateName() string
	CrateVersion() string
	included(p Policy) bool
}

// Policy holds the inclusion rules applied to entries.
type Policy struct {
	// TrustedOwners are crates.io logins whose crates are kept even when a
	// publish plan marks them unpublished.
	TrustedOwners []string
	// Exclusions are lockfile package names that are never dependency
	// targets, such as the umbrella crates.
	Exclusions []string
}

func (p Policy) trusted(owner string) bool {
	return owner != "" && slices.ContainsFunc(p.TrustedOwners, func(o string) bool {
		return strings.EqualFold(o, owner)
	})
}

func (p Policy) excluded(name string) bool {
	return slices.Contains(p.Exclusions, name)
}

// BuildMapping applies p to entries in document order. A later entry for
// the same crate replaces an earlier one.
func BuildMapping(entries []Entry, p Policy) Mapping {
	m := make(Mapping, len(entries))
	for _, e := range entries {
		if e.CrateName() == "" || e.CrateVersion() == "" || !e.included(p) {
			continue
		}
		m[e.CrateName()] = e.CrateVersion()
	}
	return m
}
