package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/versions"
)

// Output formats of the mapping command.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// mappingCommand creates the "mapping" command, which prints the resolved
// crate versions of a release.
func (c *CLI) mappingCommand() *cobra.Command {
	var (
		release  string
		source   string
		format   string
		families []string
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Print the crate versions of a release",
		Example: `  psvm mapping -v 1.6.0
  psvm mapping -v stable2407 --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRelease(release); err != nil {
				return err
			}
			kind, err := versions.ParseSourceKind(source)
			if err != nil {
				return err
			}
			m, err := c.resolve(cmd.Context(), versions.Request{
				Release:  release,
				Source:   kind,
				Families: families,
			}, offline)
			if err != nil {
				return err
			}
			return writeMapping(cmd.OutOrStdout(), m, format)
		},
	}

	cmd.Flags().StringVarP(&release, "version", "v", "", "release to resolve")
	cmd.Flags().StringVarP(&source, "source", "s", "auto", "release document to read: auto, plan or lockfile")
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or yaml")
	cmd.Flags().StringSliceVarP(&families, "family", "f", nil, "crate families to include")
	cmd.Flags().BoolVar(&offline, "offline", false, "resolve from local snapshots instead of the network")

	return cmd
}

// writeMapping encodes m with sorted keys.
func writeMapping(w io.Writer, m versions.Mapping, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]string(m)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return psvmerrors.New(psvmerrors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", format, formatJSON, formatYAML)
}
