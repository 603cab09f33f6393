package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/model"
	"github.com/google/go-github/v66/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var testIdentity = model.RepositoryIdentity{Owner: "owner", Name: "repo"}

func newMockedGithubService(rateLimit int, options ...githubMock.MockBackendOption) GithubService {
	mockedHTTPClient := githubMock.NewMockedHTTPClient(options...)
	mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimit)
	mockedGithubClient := github.NewClient(mockedHTTPClient)
	conf := config.GetDefault()

	return NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)
}

func writeJSON(t *testing.T, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write(githubMock.MustMarshal(body))

		if err != nil {
			t.Error("unable to configure mock http client")
		}
	}
}

func writeStatus(t *testing.T, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, err := w.Write([]byte(`{"message":"` + http.StatusText(status) + `"}`))

		if err != nil {
			t.Error("unable to configure mock http client")
		}
	}
}

// TestFetchRepository will test function FetchRepository
func TestFetchRepository(t *testing.T) {
	tests := []struct {
		name             string
		rateLimit        int
		handler          func(t *testing.T) http.HandlerFunc
		expectedMetadata model.RepositoryMetadata
		expectedErr      error
	}{
		{
			name:      "Repository found",
			rateLimit: 60,
			handler: func(t *testing.T) http.HandlerFunc {
				return writeJSON(t, github.Repository{
					FullName:        github.String("owner/repo"),
					Description:     github.String("a repository"),
					Language:        github.String("Go"),
					Size:            github.Int(12000),
					StargazersCount: github.Int(10),
					ForksCount:      github.Int(2),
				})
			},
			expectedMetadata: model.RepositoryMetadata{
				FullName:        "owner/repo",
				Description:     github.String("a repository"),
				PrimaryLanguage: github.String("Go"),
				SizeKB:          12000,
				Stars:           10,
				Forks:           2,
			},
		},
		{
			name:      "Missing full name falls back to identity",
			rateLimit: 60,
			handler: func(t *testing.T) http.HandlerFunc {
				return writeJSON(t, github.Repository{Size: github.Int(1)})
			},
			expectedMetadata: model.RepositoryMetadata{FullName: "owner/repo", SizeKB: 1},
		},
		{
			name:      "Repository not found",
			rateLimit: 60,
			handler: func(t *testing.T) http.HandlerFunc {
				return writeStatus(t, http.StatusNotFound)
			},
			expectedErr: model.ErrRepositoryNotFound,
		},
		{
			name:      "Server error",
			rateLimit: 60,
			handler: func(t *testing.T) http.HandlerFunc {
				return writeStatus(t, http.StatusInternalServerError)
			},
			expectedErr: model.ErrTransport,
		},
		{
			name:      "Local rate limit reached",
			rateLimit: 0,
			handler: func(t *testing.T) http.HandlerFunc {
				return func(_ http.ResponseWriter, _ *http.Request) {
					t.Error("github must not be called when the local rate limit is reached")
				}
			},
			expectedErr: model.ErrRateLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockedGithubService(tt.rateLimit,
				githubMock.WithRequestMatchHandler(githubMock.GetReposByOwnerByRepo, tt.handler(t)),
			)

			metadata, err := svc.FetchRepository(context.Background(), testIdentity)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedMetadata, metadata)
		})
	}
}

// TestFetchLanguages test the function called FetchLanguages
func TestFetchLanguages(t *testing.T) {
	svc := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposLanguagesByOwnerByRepo,
			writeJSON(t, map[string]int{"Go": 10000, "Python": 5000}),
		),
	)

	languages, err := svc.FetchLanguages(context.Background(), testIdentity)

	assert.NoError(t, err)
	assert.Equal(t, model.LanguageHistogram{"Go": 10000, "Python": 5000}, languages)

	failing := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposLanguagesByOwnerByRepo,
			writeStatus(t, http.StatusBadGateway),
		),
	)

	_, err = failing.FetchLanguages(context.Background(), testIdentity)
	assert.ErrorIs(t, err, model.ErrTransport)
}

// TestListDirectory check directory entries are converted and submodules skipped
func TestListDirectory(t *testing.T) {
	svc := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposContentsByOwnerByRepoByPath,
			writeJSON(t, []*github.RepositoryContent{
				{Type: github.String("file"), Name: github.String("Button.tsx"), Path: github.String("src/Button.tsx")},
				{Type: github.String("dir"), Name: github.String("components"), Path: github.String("src/components")},
				{Type: github.String("submodule"), Name: github.String("vendor"), Path: github.String("src/vendor")},
				{Type: github.String("symlink"), Name: github.String("link.go"), Path: github.String("src/link.go")},
			}),
		),
	)

	entries, err := svc.ListDirectory(context.Background(), testIdentity, "src")

	assert.NoError(t, err)
	assert.Equal(t, []model.TreeEntry{
		{Name: "Button.tsx", Path: "src/Button.tsx", Kind: model.EntryKindFile},
		{Name: "components", Path: "src/components", Kind: model.EntryKindDirectory},
		{Name: "link.go", Path: "src/link.go", Kind: model.EntryKindFile},
	}, entries)
}

// TestFetchFileContent check the base64 content is decoded
func TestFetchFileContent(t *testing.T) {
	manifest := `{"dependencies":{"react":"^18"}}`

	svc := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposContentsByOwnerByRepoByPath,
			writeJSON(t, github.RepositoryContent{
				Type:     github.String("file"),
				Name:     github.String("package.json"),
				Path:     github.String("package.json"),
				Encoding: github.String("base64"),
				Content:  github.String(base64.StdEncoding.EncodeToString([]byte(manifest))),
			}),
		),
	)

	content, err := svc.FetchFileContent(context.Background(), testIdentity, "package.json")

	assert.NoError(t, err)
	assert.Equal(t, manifest, content)
}

func TestFetchFileContentOfDirectory(t *testing.T) {
	svc := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposContentsByOwnerByRepoByPath,
			writeJSON(t, []*github.RepositoryContent{
				{Type: github.String("file"), Name: github.String("a.go"), Path: github.String("src/a.go")},
			}),
		),
	)

	_, err := svc.FetchFileContent(context.Background(), testIdentity, "src")
	assert.ErrorIs(t, err, model.ErrTransport)
}

func fakeResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Request: &http.Request{
			Method: http.MethodGet,
			URL:    &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/owner/repo"},
		},
	}
}

// TestHandleRequestErrors check the classification of github errors
func TestHandleRequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedErr error
	}{
		{
			name:        "Rate limit",
			err:         &github.RateLimitError{Response: fakeResponse(http.StatusForbidden), Message: "API rate limit exceeded"},
			expectedErr: model.ErrRateLimitReached,
		},
		{
			name:        "Secondary rate limit",
			err:         &github.AbuseRateLimitError{Response: fakeResponse(http.StatusForbidden), Message: "secondary rate limit"},
			expectedErr: model.ErrRateLimitReached,
		},
		{
			name:        "Not found",
			err:         &github.ErrorResponse{Response: fakeResponse(http.StatusNotFound), Message: "Not Found"},
			expectedErr: model.ErrRepositoryNotFound,
		},
		{
			name:        "Deadline exceeded",
			err:         context.DeadlineExceeded,
			expectedErr: model.ErrTransport,
		},
		{
			name:        "Unknown error",
			err:         errors.New("connection reset by peer"),
			expectedErr: model.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockedGithubService(60)
			assert.ErrorIs(t, svc.HandleRequestErrors(tt.err), tt.expectedErr)
		})
	}
}

// TestHandleRequestErrorsDrainsLimiter after a github rate limit error, no more request is sent
func TestHandleRequestErrorsDrainsLimiter(t *testing.T) {
	svc := newMockedGithubService(60,
		githubMock.WithRequestMatchHandler(
			githubMock.GetReposLanguagesByOwnerByRepo,
			writeJSON(t, map[string]int{"Go": 1}),
		),
	)

	err := svc.HandleRequestErrors(&github.RateLimitError{Response: fakeResponse(http.StatusForbidden), Message: "limit"})
	require.ErrorIs(t, err, model.ErrRateLimitReached)

	_, err = svc.FetchLanguages(context.Background(), testIdentity)
	assert.ErrorIs(t, err, model.ErrRateLimitReached)
}
