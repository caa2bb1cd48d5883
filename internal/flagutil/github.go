package flagutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vueland/vuebot/internal/config"
)

const (
	tokenFileName string = "github-token"
)

// GitHubOptions holds the options needed to talk to the GitHub API
type GitHubOptions struct {
	Repository string
	TokenFile  string
	Endpoint   string

	// token is the fallback token from configuration or environment
	token string
}

// AddPFlags injects GitHub options into the given pflag.FlagSet
func (o *GitHubOptions) AddPFlags(fs *pflag.FlagSet) {
	defaultTokenPath := filepath.Join(config.Dir(), tokenFileName)

	fs.StringVar(&o.Repository, "github.repository", "", "Repository holding the RFC pull requests, as owner/name (default from config)")
	fs.StringVar(&o.TokenFile, "github.token-file", defaultTokenPath, "Path to the file containing a GitHub token; falls back to GITHUB_TOKEN when the file is missing")
	fs.StringVar(&o.Endpoint, "github.endpoint", "", "GitHub API endpoint URL (default https://api.github.com/)")
}

// Complete fills values not set on the command line from configuration
func (o *GitHubOptions) Complete(cfg config.GitHubConfig) {
	if o.Repository == "" {
		o.Repository = cfg.Repository
	}
	o.token = cfg.Token
}

// Validate checks the options are usable
func (o *GitHubOptions) Validate() error {
	if _, _, err := o.OwnerAndName(); err != nil {
		return err
	}
	if o.Endpoint != "" {
		if _, err := url.Parse(o.Endpoint); err != nil {
			return fmt.Errorf("invalid GitHub endpoint %q: %w", o.Endpoint, err)
		}
	}
	return nil
}

// OwnerAndName splits the repository into its owner and name
func (o *GitHubOptions) OwnerAndName() (string, string, error) {
	owner, name, ok := strings.Cut(o.Repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository must be in owner/name form, got %q", o.Repository)
	}
	return owner, name, nil
}

// Token returns the GitHub token to use, which may be empty for anonymous access
func (o *GitHubOptions) Token() (string, error) {
	if o.TokenFile != "" {
		data, err := os.ReadFile(o.TokenFile)
		switch {
		case err == nil:
			return strings.TrimSpace(string(data)), nil
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("failed to read GitHub token file: %w", err)
		}
	}
	return o.token, nil
}
