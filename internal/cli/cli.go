package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/paritytech/psvm/pkg/buildinfo"
	"github.com/paritytech/psvm/pkg/cache"
	"github.com/paritytech/psvm/pkg/integrations"
	"github.com/paritytech/psvm/pkg/integrations/crates"
	"github.com/paritytech/psvm/pkg/integrations/github"
	"github.com/paritytech/psvm/pkg/versions"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "psvm"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	viper  *viper.Viper
	config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		viper:  viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Service Factories
// =============================================================================

// newCache selects the release-list cache: Redis when redis_url is
// configured, the file cache otherwise.
func (c *CLI) newCache() (cache.Cache, error) {
	if c.config.RedisURL != "" {
		rc, err := cache.NewRedisCache(c.config.RedisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", rc.Addr())
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) families() *versions.FamilyRegistry {
	all := append([]versions.Family{versions.ORML()}, c.config.Families...)
	return versions.NewFamilyRegistry(all...)
}

func (c *CLI) newResolver() *versions.Resolver {
	fetcher := integrations.NewClient(map[string]string{"User-Agent": buildinfo.UserAgent()})
	return versions.NewResolver(fetcher, versions.Options{
		BaseURL:            c.config.BaseURL,
		TrustedOwners:      c.config.TrustedOwners,
		LockfileExclusions: c.config.LockfileExclusions,
		Families:           c.families(),
		Owners:             crates.NewClient(),
		Logger:             c.Logger,
	})
}

func (c *CLI) newLister(store cache.Cache) *versions.Lister {
	gh := github.NewClient(c.config.GitHubToken)
	if c.config.GitHubAPI != "" {
		gh = gh.WithBaseURL(c.config.GitHubAPI)
	}
	return versions.NewLister(gh, store, c.config.CacheTTL, c.families(), c.Logger)
}

// resolve resolves req from the network, or from the snapshots when offline
// is set.
func (c *CLI) resolve(ctx context.Context, req versions.Request, offline bool) (versions.Mapping, error) {
	if offline {
		c.Logger.Debug("loading snapshot", "release", req.Release)
		return c.snapshots().Load(req.Release, req.Families)
	}
	return c.newResolver().Resolve(ctx, req)
}

// snapshots layers the user snapshot directory over the bundled snapshots.
// Without a usable directory only the bundled set is read.
func (c *CLI) snapshots() *versions.SnapshotStore {
	dir, err := c.snapshotDir()
	if err != nil {
		c.Logger.Debug("no snapshot directory, using bundled snapshots", "error", err)
		return versions.NewSnapshotStore(versions.Bundled())
	}
	return versions.NewSnapshotStore(os.DirFS(dir), versions.Bundled())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/psvm/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// snapshotDir returns the configured snapshot directory, defaulting to
// the "snapshots" folder of the cache directory.
func (c *CLI) snapshotDir() (string, error) {
	if c.config.SnapshotDir != "" {
		return c.config.SnapshotDir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "snapshots"), nil
}
