package manifest

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/paritytech/psvm/pkg/errors"
)

// FileName is the manifest file looked up in directories.
const FileName = "Cargo.toml"

// ResolvePath returns the manifest path for p: p itself if it is a file,
// p/Cargo.toml if it is a directory. An empty p means the current directory.
func ResolvePath(p string) (string, error) {
	if p == "" {
		p = "."
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		p = filepath.Join(p, FileName)
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", errors.New(errors.ErrCodeInvalidPath, "could not find workspace root Cargo.toml file at %s", p)
	}
	return p, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
	}
	return doc, nil
}

// Save writes doc to path. The file is replaced atomically and keeps its
// permissions.
func Save(path string, doc *Document) error {
	data := doc.Bytes()
	if _, err := Parse(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rendered manifest for %s is invalid", path)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "replace %s", path)
	}
	return nil
}
