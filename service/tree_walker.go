package service

import (
	"context"
	"strings"

	"github.com/FlorianRuen/repo-cost-estimator/classifier"
	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/extractor"
	"github.com/FlorianRuen/repo-cost-estimator/model"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

// indicator files at the repository root and the feature they reveal
// names are compared lowercased, prefix true means the name only has to start with it
var rootIndicators = []struct {
	name    string
	prefix  bool
	feature string
}{
	{name: "dockerfile", prefix: true, feature: "Docker Containerization"},
	{name: "docker-compose", prefix: true, feature: "Docker Containerization"},
	{name: ".github", feature: "CI/CD Pipeline"},
	{name: ".gitlab-ci.yml", feature: "CI/CD Pipeline"},
	{name: ".travis.yml", feature: "CI/CD Pipeline"},
	{name: ".circleci", feature: "CI/CD Pipeline"},
	{name: "jenkinsfile", feature: "CI/CD Pipeline"},
	{name: "readme", prefix: true, feature: "Documentation"},
	{name: "docs", feature: "Documentation"},
	{name: "license", prefix: true, feature: "Open Source License"},
	{name: "licence", prefix: true, feature: "Open Source License"},
}

// TreeWalker aggregates components, manifests and features of a repository
// the number of listed directories is bounded by maxDepth to save rate limited calls
type TreeWalker struct {
	githubService    GithubService
	extractor        *extractor.Extractor
	maxDepth         int
	maxParallelTasks int
}

func NewTreeWalker(config config.Config, githubService GithubService, ext *extractor.Extractor) TreeWalker {
	maxParallelTasks := config.Tasks.MaxParallelTasksAllowed
	if maxParallelTasks < 1 {
		maxParallelTasks = 1
	}

	return TreeWalker{
		githubService:    githubService,
		extractor:        ext,
		maxDepth:         config.Analysis.MaxDepth,
		maxParallelTasks: maxParallelTasks,
	}
}

// Walk builds the structural analysis from the root listing
// failed listings or manifest fetches are logged and contribute nothing
func (w TreeWalker) Walk(ctx context.Context, id model.RepositoryIdentity, root []model.TreeEntry) model.StructuralAnalysisResult {
	result := model.NewStructuralAnalysisResult()
	logger := log.WithField("repository", id.String())

	dependencyCount := 0
	parsedEcosystems := map[string]bool{}

	for _, e := range root {
		for _, feature := range indicatorFeatures(e.Name) {
			result.Features[feature] = struct{}{}
		}

		if !e.IsFile() {
			continue
		}

		ecosystem, isManifest := classifier.ManifestKind(e.Name)
		if !isManifest {
			continue
		}

		result.PackageManagers[ecosystem] = struct{}{}

		// only the first manifest of each enabled parser contributes dependencies
		parser, ok := w.extractor.ParserFor(e.Name)
		if !ok || parsedEcosystems[parser.Ecosystem()] {
			continue
		}
		parsedEcosystems[parser.Ecosystem()] = true

		content, err := w.githubService.FetchFileContent(ctx, id, e.Path)
		if err != nil {
			logger.WithError(err).WithField("manifest", e.Path).Warning("unable to fetch manifest content, dependencies skipped")
			continue
		}

		extraction := w.extractor.Extract(e.Name, content)
		dependencyCount += extraction.DependencyCount
		for _, feature := range extraction.Features {
			result.Features[feature] = struct{}{}
		}
	}

	result.ComponentCount = max(w.countRootComponents(ctx, id, root), 1)
	result.DependencyCount = max(dependencyCount, 1)

	logger.WithFields(log.Fields{
		"components":      result.ComponentCount,
		"dependencies":    result.DependencyCount,
		"packageManagers": result.SortedPackageManagers(),
		"features":        len(result.Features),
	}).Debug("repository tree walked")

	return result
}

// countRootComponents walks every root directory in parallel
// each branch writes its own slot, the sum is done once all branches are finished
func (w TreeWalker) countRootComponents(ctx context.Context, id model.RepositoryIdentity, root []model.TreeEntry) int {
	count := 0
	directories := make([]model.TreeEntry, 0)

	for _, e := range root {
		switch {
		case e.IsDirectory():
			directories = append(directories, e)
		case e.IsFile() && classifier.IsComponentFile(e.Name):
			count++
		}
	}

	branchCounts := make([]int, len(directories))
	swg := sizedwaitgroup.New(w.maxParallelTasks)

	for i, d := range directories {
		if err := swg.AddWithContext(ctx); err != nil {
			log.WithError(err).Warning("tree walk interrupted, remaining directories skipped")
			break
		}

		go func(i int, d model.TreeEntry) {
			defer swg.Done()
			branchCounts[i] = w.countComponents(ctx, id, d.Path, w.maxDepth)
		}(i, d)
	}

	swg.Wait()

	for _, c := range branchCounts {
		count += c
	}

	return count
}

// countComponents lists path and counts its component files
// subdirectories are only walked while more than one level remains
func (w TreeWalker) countComponents(ctx context.Context, id model.RepositoryIdentity, path string, remainingDepth int) int {
	if remainingDepth <= 0 {
		return 0
	}

	entries, err := w.githubService.ListDirectory(ctx, id, path)
	if err != nil {
		log.WithFields(log.Fields{
			"repository": id.String(),
			"path":       path,
		}).WithError(err).Debug("unable to list directory, branch skipped")
		return 0
	}

	count := 0
	for _, e := range entries {
		switch {
		case e.IsFile() && classifier.IsComponentFile(e.Name):
			count++
		case e.IsDirectory() && remainingDepth > 1:
			count += w.countComponents(ctx, id, e.Path, remainingDepth-1)
		}
	}

	return count
}

func indicatorFeatures(name string) []string {
	lower := strings.ToLower(name)
	features := make([]string, 0)

	for _, indicator := range rootIndicators {
		matched := lower == indicator.name
		if indicator.prefix {
			matched = strings.HasPrefix(lower, indicator.name)
		}

		if matched {
			features = append(features, indicator.feature)
		}
	}

	return features
}
