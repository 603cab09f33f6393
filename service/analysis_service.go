package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/estimation"
	"github.com/FlorianRuen/repo-cost-estimator/model"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDescription = "Repository analysis completed"
	unknownLanguage    = "Unknown"

	// primary language included
	maxStackLanguages = 5
)

type AnalysisService interface {
	AnalyzeRepository(ctx context.Context, repositoryURL string) (model.AnalysisReport, error)
	Analyze(ctx context.Context, id model.RepositoryIdentity) (model.AnalysisReport, error)
}

type analysisService struct {
	githubService GithubService
	treeWalker    TreeWalker
	scorer        estimation.Scorer
	policy        estimation.Policy
	config        config.Config
}

func NewAnalysisService(config config.Config, githubService GithubService, treeWalker TreeWalker, scorer estimation.Scorer, policy estimation.Policy) AnalysisService {
	return analysisService{
		githubService: githubService,
		treeWalker:    treeWalker,
		scorer:        scorer,
		policy:        policy,
		config:        config,
	}
}

// AnalyzeRepository validates the url before any request is sent to github
func (s analysisService) AnalyzeRepository(ctx context.Context, repositoryURL string) (model.AnalysisReport, error) {
	id, err := model.ParseRepositoryURL(repositoryURL)
	if err != nil {
		return model.AnalysisReport{}, err
	}

	return s.Analyze(ctx, id)
}

// Analyze runs the full analysis and switches to the metadata only estimate
// when the repository tree is not available
func (s analysisService) Analyze(ctx context.Context, id model.RepositoryIdentity) (model.AnalysisReport, error) {
	if s.config.Analysis.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.Analysis.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	logger := log.WithField("repository", id.String())
	logger.Info("analyse repository")

	var (
		metadata     model.RepositoryMetadata
		metadataErr  error
		languages    model.LanguageHistogram
		languagesErr error
		root         []model.TreeEntry
		rootErr      error
	)

	// only a missing repository aborts the group, other failures are handled below
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		metadata, metadataErr = s.githubService.FetchRepository(gctx, id)
		if errors.Is(metadataErr, model.ErrRepositoryNotFound) {
			return metadataErr
		}
		return nil
	})

	g.Go(func() error {
		languages, languagesErr = s.githubService.FetchLanguages(gctx, id)
		return nil
	})

	g.Go(func() error {
		root, rootErr = s.githubService.ListDirectory(gctx, id, "")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Info("repository not found")
		return model.AnalysisReport{}, err
	}

	if metadataErr != nil {
		logger.WithError(metadataErr).Warning("unable to fetch repository metadata, switching to fallback analysis")
		return s.fallback(ctx, id, nil)
	}

	if languagesErr != nil {
		logger.WithError(languagesErr).Warning("unable to fetch languages, continue with an empty histogram")
		languages = model.LanguageHistogram{}
	}

	if rootErr != nil {
		logger.WithError(rootErr).Warning("unable to list repository root")
		root = nil
	}

	if len(root) == 0 {
		logger.Info("repository tree not available, switching to fallback analysis")
		return s.fallback(ctx, id, &metadata)
	}

	structure := s.treeWalker.Walk(ctx, id, root)
	lines := s.policy.EstimateLines(languages.TotalBytes())
	language := resolveLanguage(languages, metadata)

	complexity := s.scorer.Classify(estimation.ComplexityInput{
		Language:     language,
		SizeKB:       metadata.SizeKB,
		Components:   structure.ComponentCount,
		Dependencies: structure.DependencyCount,
		Features:     len(structure.Features),
	})

	estimate := s.policy.Estimate(lines, structure.ComponentCount, structure.DependencyCount, complexity)

	features := structure.SortedFeatures()
	if len(features) == 0 {
		features = estimation.DefaultFeatures(complexity, structure.ComponentCount)
	}

	logger.WithFields(log.Fields{
		"strategy":   model.StrategyFull,
		"complexity": complexity,
		"totalHours": estimate.TotalHours,
	}).Info("repository analysed")

	return model.AnalysisReport{
		Repository: summarize(metadata, language),
		Statistics: model.Statistics{
			TotalLines:       lines,
			CustomComponents: structure.ComponentCount,
			Dependencies:     structure.DependencyCount,
			Complexity:       complexity,
		},
		CostEstimate: estimate.Cost,
		TimeEstimate: estimate.Time,
		TechStack:    techStack(languages, language, structure),
		Features:     features,
		Strategy:     model.StrategyFull,
	}, nil
}

// fallback estimates from the repository size only
// metadata is fetched again when the full path could not get it
func (s analysisService) fallback(ctx context.Context, id model.RepositoryIdentity, metadata *model.RepositoryMetadata) (model.AnalysisReport, error) {
	logger := log.WithField("repository", id.String())

	if metadata == nil {
		m, err := s.githubService.FetchRepository(ctx, id)
		if err != nil {
			logger.WithError(err).Error("fallback analysis failed")
			return model.AnalysisReport{}, fmt.Errorf("fallback analysis of %s: %w", id.String(), err)
		}
		metadata = &m
	}

	lines, components, dependencies, complexity := s.policy.Fallback.FallbackStructure(metadata.SizeKB)
	estimate := s.policy.EstimateFallback(lines, components, dependencies, complexity)

	language := resolveLanguage(nil, *metadata)

	logger.WithFields(log.Fields{
		"strategy":   model.StrategyFallback,
		"complexity": complexity,
		"totalHours": estimate.TotalHours,
	}).Info("repository analysed")

	return model.AnalysisReport{
		Repository: summarize(*metadata, language),
		Statistics: model.Statistics{
			TotalLines:       lines,
			CustomComponents: components,
			Dependencies:     dependencies,
			Complexity:       complexity,
		},
		CostEstimate: estimate.Cost,
		TimeEstimate: estimate.Time,
		TechStack:    estimation.TechStackFor(language),
		Features:     estimation.DefaultFeatures(complexity, components),
		Strategy:     model.StrategyFallback,
	}, nil
}

// resolveLanguage prefers the histogram over the language reported by github
func resolveLanguage(languages model.LanguageHistogram, metadata model.RepositoryMetadata) string {
	if primary := languages.Primary(); primary != "" {
		return primary
	}

	if metadata.PrimaryLanguage != nil && *metadata.PrimaryLanguage != "" {
		return *metadata.PrimaryLanguage
	}

	return unknownLanguage
}

func summarize(metadata model.RepositoryMetadata, language string) model.RepositorySummary {
	description := defaultDescription
	if metadata.Description != nil && *metadata.Description != "" {
		description = *metadata.Description
	}

	return model.RepositorySummary{
		Name:        metadata.FullName,
		Description: description,
		Language:    language,
		Stars:       metadata.Stars,
		Forks:       metadata.Forks,
	}
}

// techStack lists languages by descending usage followed by the package managers found
func techStack(languages model.LanguageHistogram, language string, structure model.StructuralAnalysisResult) []string {
	stack := make([]string, 0)

	for _, share := range languages.Ordered() {
		if len(stack) == maxStackLanguages {
			break
		}
		stack = append(stack, share.Language)
	}

	if len(stack) == 0 && language != unknownLanguage {
		stack = append(stack, language)
	}

	return append(stack, structure.SortedPackageManagers()...)
}
