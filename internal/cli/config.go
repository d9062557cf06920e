package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paritytech/psvm/pkg/cache"
	psvmerrors "github.com/paritytech/psvm/pkg/errors"
	"github.com/paritytech/psvm/pkg/versions"
)

const envPrefix = "PSVM"

// Config is the file and environment configuration. Every key can be set
// in psvm.yaml or through a PSVM_<KEY> environment variable.
type Config struct {
	BaseURL            string            `mapstructure:"base_url"`
	GitHubToken        string            `mapstructure:"github_token"`
	GitHubAPI          string            `mapstructure:"github_api_url"`
	TrustedOwners      []string          `mapstructure:"trusted_owners"`
	LockfileExclusions []string          `mapstructure:"lockfile_exclusions"`
	RedisURL           string            `mapstructure:"redis_url"`
	CacheTTL           time.Duration     `mapstructure:"cache_ttl"`
	SnapshotDir        string            `mapstructure:"snapshot_dir"`
	Families           []versions.Family `mapstructure:"families"`
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("base_url", versions.DefaultBaseURL)
	v.SetDefault("github_token", "")
	v.SetDefault("github_api_url", "")
	v.SetDefault("trusted_owners", versions.DefaultTrustedOwners)
	v.SetDefault("lockfile_exclusions", versions.DefaultLockfileExclusions)
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", cache.DefaultTTL)
	v.SetDefault("snapshot_dir", "")
}

// loadConfig reads the configuration into c.config. An explicit file must
// exist; otherwise psvm.yaml is looked up in the working directory and in
// $HOME/.config/psvm, and its absence is not an error.
func (c *CLI) loadConfig(cmd *cobra.Command, file string) error {
	v := c.viper
	setConfigDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("github_token", "PSVM_GITHUB_TOKEN", "GITHUB_TOKEN")

	if f := cmd.Flags().Lookup("base-url"); f != nil {
		_ = v.BindPFlag("base_url", f)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return psvmerrors.Wrap(psvmerrors.ErrCodeInvalidInput, err, "read config file %s", file)
		}
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + appName)
		if err := v.ReadInConfig(); err == nil {
			c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return psvmerrors.Wrap(psvmerrors.ErrCodeInvalidInput, err, "invalid configuration")
	}
	if err := psvmerrors.ValidateURL(cfg.BaseURL); err != nil {
		return err
	}
	c.config = &cfg
	return nil
}
