package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paritytech/psvm/pkg/buildinfo"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/manifest"
	"github.com/paritytech/psvm/pkg/observability"
	"github.com/paritytech/psvm/pkg/rewrite"
	"github.com/paritytech/psvm/pkg/versions"
)

// rootOptions are the flags of the top-level command.
type rootOptions struct {
	path        string
	release     string
	overwrite   bool
	list        bool
	check       bool
	orml        bool
	fromCache   bool
	updateCache bool
	source      string
	families    []string
	offline     bool
	interactive bool
}

// familyNames returns the requested families without repeats, with ORML
// first when -O is set.
func (o *rootOptions) familyNames() []string {
	names := o.families
	if o.orml {
		names = append([]string{versions.ORML().Name}, names...)
	}
	return versions.UniqueFamilies(names)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		opts       rootOptions
		configFile string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "psvm",
		Short: "Polkadot SDK Version Manager",
		Long: `psvm updates the Polkadot SDK dependencies of a Cargo.toml to the versions
published by a Polkadot SDK release, and can check that a manifest matches one.`,
		Example: `  psvm -v 1.6.0
  psvm -v stable2407 -p runtime/Cargo.toml --check
  psvm -v 1.7.0 -O
  psvm --list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetResolveHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			return c.loadConfig(cmd, configFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoot(cmd, &opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./psvm.yaml or ~/.config/psvm/psvm.yaml)")
	pf.BoolVar(&verbose, "verbose", false, "enable debug logging")
	pf.String("base-url", versions.DefaultBaseURL, "raw-content server hosting release documents")

	f := root.Flags()
	f.StringVarP(&opts.path, "path", "p", manifest.FileName, "path to a crate folder or Cargo.toml file")
	f.StringVarP(&opts.release, "version", "v", "", "Polkadot SDK release to apply (see --list)")
	f.BoolVarP(&opts.overwrite, "overwrite", "o", false, "also pin local path dependencies named like release crates")
	f.BoolVarP(&opts.list, "list", "l", false, "list available releases")
	f.BoolVarP(&opts.check, "check", "c", false, "check that dependencies match the release without modifying the manifest")
	f.BoolVarP(&opts.orml, "orml", "O", false, "include ORML crates, or list ORML releases with --list")
	f.BoolVarP(&opts.fromCache, "cache", "C", false, "read the release list from the cache")
	f.BoolVarP(&opts.updateCache, "update-cache", "u", false, "refresh the cached release list")
	f.StringVarP(&opts.source, "source", "s", "auto", "release document to read: auto, plan or lockfile")
	f.StringSliceVarP(&opts.families, "family", "f", nil, "additional crate families to include")
	f.BoolVar(&opts.offline, "offline", false, "resolve from local snapshots instead of the network")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "pick the release from a list")
	c.registerFlagCompletions(root)

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.mappingCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appName+" "+buildinfo.Current())
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

func (c *CLI) runRoot(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	switch {
	case opts.updateCache:
		return c.runCacheUpdate(cmd)
	case opts.list:
		return c.runList(cmd, opts.orml, !opts.fromCache)
	}

	if opts.release == "" && opts.interactive {
		release, err := c.pickRelease(cmd, opts.orml)
		if err != nil {
			return err
		}
		if release == "" {
			printInfo("No release selected")
			return nil
		}
		opts.release = release
	}
	if err := requireRelease(opts.release); err != nil {
		return err
	}

	source, err := versions.ParseSourceKind(opts.source)
	if err != nil {
		return err
	}
	path, err := manifest.ResolvePath(opts.path)
	if err != nil {
		return err
	}
	doc, err := manifest.Load(path)
	if err != nil {
		return err
	}

	req := versions.Request{Release: opts.release, Source: source, Families: opts.familyNames()}
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving release %s...", opts.release))
	spin.Start()
	m, err := c.resolve(ctx, req, opts.offline)
	spin.Stop()
	if err != nil {
		return err
	}
	c.Logger.Debug("resolved release", "release", opts.release, "crates", len(m))

	out := rewrite.Apply(m, doc.Dependencies(), rewrite.Options{
		OverwriteLocalPaths: opts.overwrite,
		CheckOnly:           opts.check,
	})
	if out.Matched == 0 {
		printWarning("No dependency of %s is part of release %s", path, opts.release)
	}

	if opts.check {
		return reportCheck(path, opts.release, out)
	}
	if !out.Changed {
		printSuccess("Dependencies in %s are already up to date", path)
		return nil
	}
	if err := manifest.Save(path, doc); err != nil {
		return err
	}
	printSuccess("Updated dependencies in %s", path)
	for _, ch := range out.Changes {
		printChange(ch)
	}
	return nil
}

func requireRelease(release string) error {
	if release == "" {
		return psvmerrors.New(psvmerrors.ErrCodeInvalidInput,
			"a release is required: pass --version, or use --list to display available releases")
	}
	return nil
}

func reportCheck(path, release string, out rewrite.Outcome) error {
	if out.OK() {
		printSuccess("Dependencies in %s match release %s", path, release)
		return nil
	}
	for _, mm := range out.Mismatches {
		printMismatch(mm)
	}
	return psvmerrors.New(psvmerrors.ErrCodeMismatch,
		"%d dependencies in %s do not match release %s", len(out.Mismatches), path, release)
}
