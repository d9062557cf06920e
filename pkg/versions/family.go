package versions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

// Family describes a companion crate family released in step with the SDK.
type Family struct {
	// Name identifies the family on the command line ("orml").
	Name string `mapstructure:"name" json:"name" yaml:"name"`
	// Repo is the GitHub owner/repo holding the family workspace.
	Repo string `mapstructure:"repo" json:"repo" yaml:"repo"`
	// Manifest is the workspace manifest path inside Repo.
	Manifest string `mapstructure:"manifest" json:"manifest" yaml:"manifest"`
	// Prefix is prepended to workspace member names to form crate names.
	Prefix string `mapstructure:"prefix" json:"prefix" yaml:"prefix"`
	// BranchPrefix marks release branches of Repo ("polkadot-v").
	BranchPrefix string `mapstructure:"branch_prefix" json:"branch_prefix" yaml:"branch_prefix"`
	// Releases maps a family release (branch) to the SDK release it tracks.
	Releases map[string]string `mapstructure:"releases" json:"releases" yaml:"releases"`
}

// ReleaseFor returns the family release matching the SDK release main.
func (f Family) ReleaseFor(main string) (string, bool) {
	var matches []string
	for fam, m := range f.Releases {
		if m == main {
			matches = append(matches, fam)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	slices.Sort(matches)
	return matches[0], true
}

// ManifestURL returns the raw-content URL of the family workspace manifest
// for a family release.
func (f Family) ManifestURL(base, familyRelease string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(base, "/"), f.Repo, familyRelease, f.Manifest)
}

// ParseManifest derives the family mapping from its workspace manifest:
// every member becomes <prefix><member> at the workspace crates-version.
func (f Family) ParseManifest(data string) (Mapping, error) {
	var doc struct {
		Workspace struct {
			Members  []string `toml:"members"`
			Metadata map[string]struct {
				CratesVersion string `toml:"crates-version"`
			} `toml:"metadata"`
		} `toml:"workspace"`
	}
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, psvmerrors.Wrap(psvmerrors.ErrCodeInvalidFormat, err, "parse %s", f.Manifest)
	}

	version := doc.Workspace.Metadata[f.Name].CratesVersion
	if version == "" {
		return nil, psvmerrors.New(psvmerrors.ErrCodeInvalidFormat,
			"%s: missing [workspace.metadata.%s] crates-version", f.Manifest, f.Name)
	}

	m := make(Mapping, len(doc.Workspace.Members))
	for _, member := range doc.Workspace.Members {
		m[f.Prefix+strings.ReplaceAll(member, "/", "-")] = version
	}
	return m, nil
}

// FamilyRegistry holds the known families by name.
type FamilyRegistry struct {
	families map[string]Family
}

// NewFamilyRegistry creates a registry of the given families. A later
// family replaces an earlier one with the same name.
func NewFamilyRegistry(families ...Family) *FamilyRegistry {
	r := &FamilyRegistry{families: make(map[string]Family, len(families))}
	for _, f := range families {
		r.families[strings.ToLower(f.Name)] = f
	}
	return r
}

// DefaultFamilies returns the registry of families psvm knows about.
func DefaultFamilies() *FamilyRegistry {
	return NewFamilyRegistry(ORML())
}

// ORML returns the Open Runtime Module Library family. ORML has no
// polkadot-v1.2.0 branch.
func ORML() Family {
	releases := make(map[string]string)
	for _, v := range []string{"1.1.0", "1.3.0", "1.4.0", "1.5.0", "1.6.0", "1.7.0"} {
		releases["polkadot-v"+v] = v
	}
	return Family{
		Name:         "orml",
		Repo:         "open-web3-stack/open-runtime-module-library",
		Manifest:     "Cargo.dev.toml",
		Prefix:       "orml-",
		BranchPrefix: "polkadot-v",
		Releases:     releases,
	}
}

// UniqueFamilies returns names without repeats, compared case-insensitively,
// keeping the first spelling and order of each.
func UniqueFamilies(names []string) []string {
	var out []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		k := strings.ToLower(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}

// Lookup returns the family called name.
func (r *FamilyRegistry) Lookup(name string) (Family, bool) {
	if r == nil {
		return Family{}, false
	}
	f, ok := r.families[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered family names in lexical order.
func (r *FamilyRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolve finds the family release tracking main.
func (r *FamilyRegistry) resolve(name, main string) (Family, string, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return Family{}, "", psvmerrors.New(psvmerrors.ErrCodeUnknownFamily,
			"unknown family %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	rel, ok := f.ReleaseFor(main)
	if !ok {
		return Family{}, "", psvmerrors.New(psvmerrors.ErrCodeUnknownFamily,
			"no %s release tracks %s", f.Name, main)
	}
	return f, rel, nil
}
