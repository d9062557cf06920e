package versions

import (
	"github.com/BurntSushi/toml"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

// PlanEntry is a [[crate]] row of a Plan.toml publish plan.
type PlanEntry struct {
	Name    string
	Version string
	Publish bool
	// Owner is the trusted crates.io account owning the crate, if any.
	Owner string
}

func (e PlanEntry) CrateName() string    { return e.Name }
func (e PlanEntry) CrateVersion() string { return e.Version }

func (e PlanEntry) included(p Policy) bool {
	return e.Publish || p.trusted(e.Owner)
}

type planDocument struct {
	Crates []struct {
		Name    string `toml:"name"`
		To      string `toml:"to"`
		Publish *bool  `toml:"publish"`
	} `toml:"crate"`
}

// ParsePlan parses a Plan.toml document. A row without a publish key is
// published.
func ParsePlan(data string) ([]PlanEntry, error) {
	var doc planDocument
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, psvmerrors.Wrap(psvmerrors.ErrCodeInvalidFormat, err, "parse %s", planFile)
	}

	entries := make([]PlanEntry, 0, len(doc.Crates))
	for _, c := range doc.Crates {
		publish := true
		if c.Publish != nil {
			publish = *c.Publish
		}
		entries = append(entries, PlanEntry{Name: c.Name, Version: c.To, Publish: publish})
	}
	return entries, nil
}

func planEntries(plan []PlanEntry) []Entry {
	out := make([]Entry, len(plan))
	for i, e := range plan {
		out[i] = e
	}
	return out
}
