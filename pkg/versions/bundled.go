package versions

import (
	"embed"
	"io/fs"
)

// The bundled set is refreshed from the network with the snapshot command.
//go:generate sh -c "for r in 1.3.0 1.4.0 1.5.0 1.6.0 1.7.0 1.8.0 1.9.0; do go run ../../cmd/psvm snapshot -v $r --dir snapshots; done"

//go:embed snapshots/*.json
var bundled embed.FS

// Bundled returns the snapshots compiled into psvm, one per historical
// release-crates-io release. They serve --offline when the user snapshot
// directory has no entry for a release.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "snapshots")
	if err != nil {
		panic(err)
	}
	return sub
}
