// Package gateway provides access to the outside world: the GitHub API,
// abstracting away the underlying REST and GraphQL clients, and the report files on disk.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/pkg/errors"
	"github.com/shurcooL/githubv4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"
	// DefaultGraphQLURL is the public GitHub GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"

	checkStatusCompleted   = "completed"
	checkConclusionSuccess = "success"
)

// CheckPublisher defines the behavior of a gateway that publishes check runs on GitHub.
type CheckPublisher interface {
	CreateCheck(ctx context.Context, check domain.Check) (*domain.CheckResult, error)
	ResolveHeadSHA(ctx context.Context, owner, repo string) (string, error)
}

// GitHubGateway is the concrete implementation of the CheckPublisher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// defaultBranchHeadQuery resolves the commit at the tip of the default branch.
type defaultBranchHeadQuery struct {
	Repository struct {
		DefaultBranchRef *struct {
			Name   string
			Target struct {
				Oid githubv4.GitObjectID
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Empty URLs fall back to the public GitHub endpoints.
func NewGitHubGateway(token, apiURL, graphqlURL string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Minute, nil))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rate limit waiter")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != DefaultAPIURL {
		restClient, err = restClient.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid GitHub API URL %q", apiURL)
		}
	}
	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(graphqlURL, httpClient),
		logger:        logger,
	}, nil
}

// CreateCheck creates a completed, successful check run carrying the summary.
func (g *GitHubGateway) CreateCheck(ctx context.Context, check domain.Check) (*domain.CheckResult, error) {
	g.logger.WithFields(log.Fields{
		"repository": check.Owner + "/" + check.Repo,
		"sha":        check.HeadSHA,
		"label":      check.Label,
	}).Info("Creating check run")

	opts := github.CreateCheckRunOptions{
		Name:       check.Name,
		HeadSHA:    check.HeadSHA,
		Status:     github.String(checkStatusCompleted),
		Conclusion: github.String(checkConclusionSuccess),
		Output: &github.CheckRunOutput{
			Title:   github.String(check.Title),
			Summary: github.String(check.Summary),
		},
	}
	run, _, err := g.restClient.Checks.CreateCheckRun(ctx, check.Owner, check.Repo, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create check run")
	}

	result := &domain.CheckResult{ID: run.GetID(), HTMLURL: run.GetHTMLURL()}
	g.logger.WithField("url", result.HTMLURL).Info("Check run created")
	return result, nil
}

// ResolveHeadSHA returns the commit at the head of the repository's default branch.
// It is used when the run has no commit SHA of its own, e.g. outside of Actions.
func (g *GitHubGateway) ResolveHeadSHA(ctx context.Context, owner, repo string) (string, error) {
	g.logger.Debugf("Resolving default branch head for %s/%s", owner, repo)
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	var q defaultBranchHeadQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return "", errors.Wrap(err, "failed to execute GraphQL query for default branch head")
	}
	ref := q.Repository.DefaultBranchRef
	if ref == nil || ref.Target.Oid == "" {
		return "", errors.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	g.logger.Debugf("Default branch %s is at %s", ref.Name, ref.Target.Oid)
	return string(ref.Target.Oid), nil
}
