package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
)

func discardLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(server.URL, server.Client()),
		logger:        discardLogger(),
	}
	return gateway, server
}

func TestGitHubGateway_CreateCheck(t *testing.T) {
	check := domain.Check{
		Owner:   "octo",
		Repo:    "site",
		HeadSHA: "abc123",
		Name:    domain.CheckName,
		Title:   "Lighthouse Scores for https://x",
		Label:   domain.CheckLabel,
		Summary: "* Performance: **90**/100 ",
	}

	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       *domain.CheckResult
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - creates a completed check run",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/repos/octo/site/check-runs", r.URL.Path)

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "Lighthouse Report", body["name"])
				assert.Equal(t, "abc123", body["head_sha"])
				assert.Equal(t, "completed", body["status"])
				assert.Equal(t, "success", body["conclusion"])
				output, ok := body["output"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "Lighthouse Scores for https://x", output["title"])
				assert.Equal(t, "* Performance: **90**/100 ", output["summary"])

				w.WriteHeader(http.StatusCreated)
				fmt.Fprint(w, `{"id": 42, "html_url": "https://github.com/octo/site/runs/42"}`)
			},
			expected: &domain.CheckResult{ID: 42, HTMLURL: "https://github.com/octo/site/runs/42"},
		},
		{
			name: "error case - GitHub rejects the token",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Bad credentials"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to create check run",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			result, err := gateway.CreateCheck(context.Background(), check)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, result)
			}
		})
	}
}

func TestGitHubGateway_ResolveHeadSHA(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expectedSHA    string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:         "happy path - returns default branch head",
			responseBody: `{"data":{"repository":{"defaultBranchRef":{"name":"main","target":{"oid":"deadbeef"}}}}}`,
			expectedSHA:  "deadbeef",
		},
		{
			name:           "empty repository - no default branch",
			responseBody:   `{"data":{"repository":{"defaultBranchRef":null}}}`,
			expectError:    true,
			expectedErrMsg: "has no default branch",
		},
		{
			name:           "error case - GraphQL error",
			responseBody:   `{"errors":[{"message":"Could not resolve to a Repository"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "defaultBranchRef")
				assert.Contains(t, string(body), `"owner":"octo"`)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			sha, err := gateway.ResolveHeadSHA(context.Background(), "octo", "site")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedSHA, sha)
			}
		})
	}
}

func TestNewGitHubGateway(t *testing.T) {
	t.Run("public endpoints by default", func(t *testing.T) {
		gateway, err := NewGitHubGateway("token", "", "", discardLogger())
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL+"/", gateway.restClient.BaseURL.String())
	})

	t.Run("enterprise endpoints", func(t *testing.T) {
		gateway, err := NewGitHubGateway("token", "https://ghe.example.com/api/v3", "https://ghe.example.com/api/graphql", discardLogger())
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", gateway.restClient.BaseURL.String())
	})
}
