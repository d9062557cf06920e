package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paritytech/psvm/pkg/versions"
)

// snapshotCommand creates the "snapshot" command, which stores the mapping
// of a release for later --offline use.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		release  string
		source   string
		families []string
		dir      string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the version mapping of a release for offline use",
		Example: `  psvm snapshot -v 1.6.0
  psvm snapshot -v 1.7.0 -f orml
  psvm snapshot --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return c.listSnapshots(cmd, dir)
			}
			if dir == "" {
				d, err := c.snapshotDir()
				if err != nil {
					return err
				}
				dir = d
			}
			if err := requireRelease(release); err != nil {
				return err
			}

			kind, err := versions.ParseSourceKind(source)
			if err != nil {
				return err
			}
			req := versions.Request{Release: release, Source: kind, Families: families}
			prog := newProgress(c.Logger)
			m, err := c.resolve(cmd.Context(), req, false)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d crates", len(m)))

			path, err := versions.WriteSnapshot(dir, release, families, m)
			if err != nil {
				return err
			}
			printSuccess("Saved snapshot of release %s", release)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&release, "version", "v", "", "release to snapshot")
	cmd.Flags().StringVarP(&source, "source", "s", "auto", "release document to read: auto, plan or lockfile")
	cmd.Flags().StringSliceVarP(&families, "family", "f", nil, "crate families to include")
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default: snapshot_dir setting)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list stored snapshots")

	return cmd
}

// listSnapshots lists the releases available offline: those in dir, or in
// the configured snapshot directory, plus the bundled ones.
func (c *CLI) listSnapshots(cmd *cobra.Command, dir string) error {
	store := c.snapshots()
	if dir != "" {
		store = versions.NewSnapshotStore(os.DirFS(dir), versions.Bundled())
	}
	names, err := store.Releases()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}
