// Package config resolves the run configuration from flags and the
// GitHub Actions environment.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys. They double as flag names.
const (
	KeyReports     = "reports"
	KeyGitHubToken = "github-token"
	KeyRepository  = "repository"
	KeySHA         = "sha"
	KeyAPIURL      = "api-url"
	KeyGraphQLURL  = "graphql-url"
	KeyLogLevel    = "log-level"
)

// envBindings maps each key to the environment variables consulted, in order.
// Action inputs arrive as INPUT_<NAME> with the name upper-cased verbatim.
var envBindings = map[string][]string{
	KeyReports:     {"INPUT_REPORTS"},
	KeyGitHubToken: {"INPUT_GITHUB-TOKEN", "GITHUB_TOKEN"},
	KeyRepository:  {"GITHUB_REPOSITORY"},
	KeySHA:         {"GITHUB_SHA"},
	KeyAPIURL:      {"GITHUB_API_URL"},
	KeyGraphQLURL:  {"GITHUB_GRAPHQL_URL"},
	KeyLogLevel:    {"INPUT_LOG-LEVEL"},
}

// Config holds everything a run needs.
type Config struct {
	ReportsDir  string
	GitHubToken string
	Owner       string
	Repo        string
	SHA         string
	APIURL      string
	GraphQLURL  string
}

// BindEnv registers the environment variables for every key on v.
func BindEnv(v *viper.Viper) error {
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return errors.Wrapf(err, "unable to bind environment for %s", key)
		}
	}
	return nil
}

// Load reads the configuration from v. When forPublish is set the token and
// repository are required as well.
func Load(v *viper.Viper, forPublish bool) (*Config, error) {
	cfg := &Config{
		ReportsDir:  strings.TrimSpace(v.GetString(KeyReports)),
		GitHubToken: strings.TrimSpace(v.GetString(KeyGitHubToken)),
		SHA:         strings.TrimSpace(v.GetString(KeySHA)),
		APIURL:      strings.TrimSpace(v.GetString(KeyAPIURL)),
		GraphQLURL:  strings.TrimSpace(v.GetString(KeyGraphQLURL)),
	}
	if cfg.ReportsDir == "" {
		return nil, errors.Errorf("%s is required", KeyReports)
	}
	if !forPublish {
		return cfg, nil
	}

	if cfg.GitHubToken == "" {
		return nil, errors.Errorf("%s is required", KeyGitHubToken)
	}
	owner, repo, err := SplitRepository(v.GetString(KeyRepository))
	if err != nil {
		return nil, err
	}
	cfg.Owner, cfg.Repo = owner, repo
	return cfg, nil
}

// SplitRepository splits "owner/name".
func SplitRepository(full string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(full), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", errors.Errorf("%s must look like owner/name, got %q", KeyRepository, full)
	}
	return owner, repo, nil
}
