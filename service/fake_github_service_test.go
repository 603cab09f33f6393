package service

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/FlorianRuen/repo-cost-estimator/model"
)

// fakeGithubService serves an in-memory repository
// directories are derived from the file paths, safe for concurrent use
type fakeGithubService struct {
	mu sync.Mutex

	metadata     model.RepositoryMetadata
	metadataErrs []error // consumed one per FetchRepository call
	languages    model.LanguageHistogram
	languagesErr error

	files        map[string]string // path -> content
	emptyDirs    []string
	failingPaths map[string]error
	reverseOrder bool

	listedPaths  []string
	fetchedFiles []string
	calls        int
}

func newFakeGithubService(files map[string]string) *fakeGithubService {
	return &fakeGithubService{
		metadata: model.RepositoryMetadata{
			FullName: "owner/repo",
			SizeKB:   100,
			Stars:    3,
			Forks:    1,
		},
		languages:    model.LanguageHistogram{},
		files:        files,
		failingPaths: map[string]error{},
	}
}

func (f *fakeGithubService) FetchRepository(_ context.Context, _ model.RepositoryIdentity) (model.RepositoryMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if len(f.metadataErrs) > 0 {
		err := f.metadataErrs[0]
		f.metadataErrs = f.metadataErrs[1:]
		if err != nil {
			return model.RepositoryMetadata{}, err
		}
	}

	return f.metadata, nil
}

func (f *fakeGithubService) FetchLanguages(_ context.Context, _ model.RepositoryIdentity) (model.LanguageHistogram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.languagesErr != nil {
		return model.LanguageHistogram{}, f.languagesErr
	}
	return f.languages, nil
}

func (f *fakeGithubService) ListDirectory(_ context.Context, _ model.RepositoryIdentity, dir string) ([]model.TreeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.listedPaths = append(f.listedPaths, dir)

	if err, ok := f.failingPaths[dir]; ok {
		return nil, err
	}

	seen := map[string]bool{}
	entries := make([]model.TreeEntry, 0)

	add := func(p string, kind model.EntryKind) {
		if seen[p] {
			return
		}
		seen[p] = true
		entries = append(entries, model.TreeEntry{Name: path.Base(p), Path: p, Kind: kind})
	}

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	paths := make([]string, 0, len(f.files)+len(f.emptyDirs))
	for p := range f.files {
		paths = append(paths, p)
	}
	for _, d := range f.emptyDirs {
		paths = append(paths, d+"/")
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}

		rest := strings.TrimPrefix(p, prefix)
		if rest == "" {
			continue
		}

		if idx := strings.Index(rest, "/"); idx >= 0 {
			add(prefix+rest[:idx], model.EntryKindDirectory)
		} else {
			add(p, model.EntryKindFile)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if f.reverseOrder {
			return entries[i].Path > entries[j].Path
		}
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

func (f *fakeGithubService) FetchFileContent(_ context.Context, _ model.RepositoryIdentity, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.fetchedFiles = append(f.fetchedFiles, p)

	if err, ok := f.failingPaths[p]; ok {
		return "", err
	}

	content, ok := f.files[p]
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrRepositoryNotFound, p)
	}
	return content, nil
}

func (f *fakeGithubService) HandleRequestErrors(err error) error {
	return err
}

func (f *fakeGithubService) listed(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.listedPaths {
		if l == p {
			return true
		}
	}
	return false
}

func (f *fakeGithubService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
