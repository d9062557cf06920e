package versions

import (
	"github.com/BurntSushi/toml"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

// LockfileEntry is a workspace [[package]] row of a Cargo.lock.
type LockfileEntry struct {
	Name    string
	Version string
}

func (e LockfileEntry) CrateName() string    { return e.Name }
func (e LockfileEntry) CrateVersion() string { return e.Version }

func (e LockfileEntry) included(p Policy) bool {
	return !p.excluded(e.Name)
}

type lockDocument struct {
	Packages []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Source  string `toml:"source"`
	} `toml:"package"`
}

// ParseLockfile parses a Cargo.lock document. Packages with a source key
// come from crates.io or git rather than the workspace and are skipped.
func ParseLockfile(data string) ([]LockfileEntry, error) {
	var doc lockDocument
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, psvmerrors.Wrap(psvmerrors.ErrCodeInvalidFormat, err, "parse %s", lockfileFile)
	}

	var entries []LockfileEntry
	for _, p := range doc.Packages {
		if p.Source != "" {
			continue
		}
		entries = append(entries, LockfileEntry{Name: p.Name, Version: p.Version})
	}
	return entries, nil
}

func lockfileEntries(lock []LockfileEntry) []Entry {
	out := make([]Entry, len(lock))
	for i, e := range lock {
		out[i] = e
	}
	return out
}
