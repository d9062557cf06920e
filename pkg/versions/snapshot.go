package versions

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
)

const snapshotExt = ".json"

// SnapshotName returns the file name of the snapshot of a release resolved
// with the given families, e.g. "1.7.0+orml.json".
func SnapshotName(release string, families []string) string {
	parts := []string{release}
	fams := slices.Clone(families)
	for i := range fams {
		fams[i] = strings.ToLower(fams[i])
	}
	slices.Sort(fams)
	parts = append(parts, slices.Compact(fams)...)
	return strings.Join(parts, "+") + snapshotExt
}

// SnapshotStore reads pre-built mappings for offline use from one or more
// layers. Earlier layers shadow later ones, so a user snapshot directory
// placed before [Bundled] overrides the snapshots shipped with psvm.
type SnapshotStore struct {
	layers []fs.FS
}

// NewSnapshotStore creates a store over layers, typically os.DirFS of the
// snapshot directory followed by [Bundled]().
func NewSnapshotStore(layers ...fs.FS) *SnapshotStore {
	return &SnapshotStore{layers: layers}
}

// Load returns the snapshot of release with families from the first layer
// holding it. A snapshot missing from every layer is a SNAPSHOT_NOT_FOUND
// error.
func (s *SnapshotStore) Load(release string, families []string) (Mapping, error) {
	if err := psvmerrors.ValidateRelease(release); err != nil {
		return nil, resolutionError(release, err)
	}
	name := SnapshotName(release, families)
	for _, fsys := range s.layers {
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, resolutionError(release, psvmerrors.Wrap(psvmerrors.ErrCodeInternal, err, "read snapshot %s", name))
		}

		var m Mapping
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, resolutionError(release, psvmerrors.Wrap(psvmerrors.ErrCodeInvalidFormat, err, "decode snapshot %s", name))
		}
		return m, nil
	}
	return nil, resolutionError(release,
		psvmerrors.New(psvmerrors.ErrCodeSnapshotNotFound, "no snapshot %s", name))
}

// Releases returns the releases with a snapshot in any layer, ordered like
// [SortReleases].
func (s *SnapshotStore) Releases() ([]string, error) {
	var out []string
	for _, fsys := range s.layers {
		matches, err := fs.Glob(fsys, "*"+snapshotExt)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			release, _, _ := strings.Cut(strings.TrimSuffix(m, snapshotExt), "+")
			out = append(out, release)
		}
	}
	return SortReleases(out), nil
}

// WriteSnapshot stores m as the snapshot of release with families under
// dir and returns the written path. The file is replaced atomically.
func WriteSnapshot(dir, release string, families []string, m Mapping) (string, error) {
	if err := psvmerrors.ValidateRelease(release); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, SnapshotName(release, families))
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}
