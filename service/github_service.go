package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/model"
	"github.com/google/go-github/v66/github"

	log "github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

// GithubService fetches everything the analysis needs from github
// each call is independent and never retried, callers decide to degrade or abort
type GithubService interface {
	FetchRepository(ctx context.Context, id model.RepositoryIdentity) (model.RepositoryMetadata, error)
	FetchLanguages(ctx context.Context, id model.RepositoryIdentity) (model.LanguageHistogram, error)
	ListDirectory(ctx context.Context, id model.RepositoryIdentity, path string) ([]model.TreeEntry, error)
	FetchFileContent(ctx context.Context, id model.RepositoryIdentity, path string) (string, error)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// every endpoint used here shares the core rate limit
// 60 calls per hour for non-authenticated and 5000 calls for authenticated
// a single analysis can use up to one call per listed directory, so the local limiter
// is consumed before each request to avoid hitting github once we know it will refuse
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

func (s githubService) FetchRepository(ctx context.Context, id model.RepositoryIdentity) (model.RepositoryMetadata, error) {
	if err := s.consumeRateLimit(); err != nil {
		return model.RepositoryMetadata{}, err
	}

	log.WithField("repository", id.String()).Debug("fetch repository metadata from github")

	r, _, err := s.githubClient.Repositories.Get(ctx, id.Owner, id.Name)
	if err != nil {
		return model.RepositoryMetadata{}, s.HandleRequestErrors(err)
	}

	metadata := model.RepositoryMetadata{
		FullName:        r.GetFullName(),
		Description:     r.Description,
		PrimaryLanguage: r.Language,
		SizeKB:          r.GetSize(),
		Stars:           r.GetStargazersCount(),
		Forks:           r.GetForksCount(),
	}

	// should not happen with a successful response, but the report needs a name
	if metadata.FullName == "" {
		metadata.FullName = id.String()
	}

	return metadata, nil
}

func (s githubService) FetchLanguages(ctx context.Context, id model.RepositoryIdentity) (model.LanguageHistogram, error) {
	if err := s.consumeRateLimit(); err != nil {
		return model.LanguageHistogram{}, err
	}

	log.WithField("repository", id.String()).Debug("fetch languages for repository")

	res, _, err := s.githubClient.Repositories.ListLanguages(ctx, id.Owner, id.Name)
	if err != nil {
		return model.LanguageHistogram{}, s.HandleRequestErrors(err)
	}

	histogram := make(model.LanguageHistogram, len(res))
	for lang, bytes := range res {
		if bytes < 0 {
			bytes = 0
		}
		histogram[lang] = bytes
	}

	return histogram, nil
}

// ListDirectory returns the entries of a directory, path is empty for the repository root
// submodules are skipped because their content belongs to another repository
func (s githubService) ListDirectory(ctx context.Context, id model.RepositoryIdentity, path string) ([]model.TreeEntry, error) {
	if err := s.consumeRateLimit(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"repository": id.String(),
		"path":       path,
	}).Debug("list directory content")

	_, directoryContent, _, err := s.githubClient.Repositories.GetContents(ctx, id.Owner, id.Name, path, nil)
	if err != nil {
		return nil, s.HandleRequestErrors(err)
	}

	entries := make([]model.TreeEntry, 0, len(directoryContent))
	for _, c := range directoryContent {
		if c == nil || c.GetName() == "" {
			continue
		}

		entry := model.TreeEntry{
			Name: c.GetName(),
			Path: c.GetPath(),
			Kind: model.EntryKindFile,
		}

		switch c.GetType() {
		case "dir":
			entry.Kind = model.EntryKindDirectory
		case "submodule":
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// FetchFileContent returns the decoded content of a file
func (s githubService) FetchFileContent(ctx context.Context, id model.RepositoryIdentity, path string) (string, error) {
	if err := s.consumeRateLimit(); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"repository": id.String(),
		"path":       path,
	}).Debug("fetch file content")

	fileContent, _, _, err := s.githubClient.Repositories.GetContents(ctx, id.Owner, id.Name, path, nil)
	if err != nil {
		return "", s.HandleRequestErrors(err)
	}

	if fileContent == nil {
		return "", fmt.Errorf("%w: %s is not a file", model.ErrTransport, path)
	}

	// content arrives base64 encoded, GetContent decodes it
	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: unable to decode %s: %v", model.ErrTransport, path, err)
	}

	return content, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError

	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			log.Debug("local rate limiter already empty")
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return fmt.Errorf("%w: %v", model.ErrRateLimitReached, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.WithError(err).Warning("github request interrupted by context")
		return fmt.Errorf("%w: %v", model.ErrTransport, err)
	}

	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil && responseErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", model.ErrRepositoryNotFound, err)
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return fmt.Errorf("%w: %v", model.ErrTransport, err)
}

func (s githubService) consumeRateLimit() error {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimitReached
	}
	return nil
}
