package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// dirName is a directory in the user's config directory where vuebot configuration is stored
	dirName = "vuebot"
	// fileName is the name of the configuration file inside dirName
	fileName = "config.yaml"

	DefaultPrefix     = "!"
	DefaultRepository = "vuejs/rfcs"
	DefaultCacheTTL   = 6 * time.Hour
	DefaultPollPeriod = 30 * time.Minute
)

// DefaultReleaseRepositories are the repositories whose releases are announced
var DefaultReleaseRepositories = []string{
	"vuejs/core",
	"vuejs/router",
	"vuejs/pinia",
	"vuejs/devtools",
	"vitejs/vite",
}

// Config is the bot configuration
type Config struct {
	Discord  DiscordConfig  `yaml:"discord"`
	GitHub   GitHubConfig   `yaml:"github"`
	Cache    CacheConfig    `yaml:"cache"`
	Releases ReleasesConfig `yaml:"releases"`
}

type DiscordConfig struct {
	Token       string   `yaml:"token"`
	Prefix      string   `yaml:"prefix"`
	Owners      []string `yaml:"owners"`
	Development bool     `yaml:"development"`
}

type GitHubConfig struct {
	Repository string `yaml:"repository"`
	Token      string `yaml:"token"`
}

type CacheConfig struct {
	TTL  time.Duration `yaml:"ttl"`
	Path string        `yaml:"path"`
}

type ReleasesConfig struct {
	Channel      string        `yaml:"channel"`
	Repositories []string      `yaml:"repositories"`
	Interval     time.Duration `yaml:"interval"`
	StatePath    string        `yaml:"state_path"`
}

// Dir returns the directory vuebot reads its configuration from
func Dir() string {
	return filepath.Join(xdg.ConfigHome, dirName)
}

// DefaultPath returns the default configuration file location
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Discord: DiscordConfig{Prefix: DefaultPrefix},
		GitHub:  GitHubConfig{Repository: DefaultRepository},
		Cache:   CacheConfig{TTL: DefaultCacheTTL},
		Releases: ReleasesConfig{
			Repositories: append([]string(nil), DefaultReleaseRepositories...),
			Interval:     DefaultPollPeriod,
		},
	}
}

// Load reads the configuration file at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.fillDefaults()

	return cfg, nil
}

// fillDefaults restores defaults for values an explicit file left empty
func (c *Config) fillDefaults() {
	defaults := Default()
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = defaults.Discord.Prefix
	}
	if c.GitHub.Repository == "" {
		c.GitHub.Repository = defaults.GitHub.Repository
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = defaults.Cache.TTL
	}
	if c.Releases.Interval <= 0 {
		c.Releases.Interval = defaults.Releases.Interval
	}
}

// ApplyEnv overrides configuration values from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup("DISCORD_TOKEN"); ok && value != "" {
		c.Discord.Token = value
	}
	if value, ok := lookup("VUEBOT_PREFIX"); ok && value != "" {
		c.Discord.Prefix = value
	}
	if value, ok := lookup("VUEBOT_OWNERS"); ok && value != "" {
		var owners []string
		for _, owner := range strings.Split(value, ",") {
			if owner = strings.TrimSpace(owner); owner != "" {
				owners = append(owners, owner)
			}
		}
		c.Discord.Owners = owners
	}
	if value, ok := lookup("GITHUB_TOKEN"); ok && value != "" {
		c.GitHub.Token = value
	}
	if value, ok := lookup("VUEBOT_ENV"); ok {
		c.Discord.Development = value == "development"
	}
}

// Validate checks the configuration needed to run the bot
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return errors.New("discord token is not set, use DISCORD_TOKEN or discord.token")
	}
	if strings.TrimSpace(c.Discord.Prefix) == "" {
		return errors.New("command prefix must not be blank")
	}
	return nil
}
