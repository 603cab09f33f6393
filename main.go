package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/controller"
	"github.com/FlorianRuen/repo-cost-estimator/estimation"
	"github.com/FlorianRuen/repo-cost-estimator/extractor"
	"github.com/FlorianRuen/repo-cost-estimator/logger"
	"github.com/FlorianRuen/repo-cost-estimator/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// unauthenticated github core limit, used when the current limits cannot be loaded
const defaultHourlyRateLimit = 60

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Warning("unable to load configuration, using default values")
		cfg = config.GetDefault()
	}

	// configure logger
	logger.Setup(*cfg)

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	rateLimiter := setupRateLimiter(githubClient)

	// setup handlers and services
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)
	treeWalker := service.NewTreeWalker(*cfg, githubService, extractor.NewDefault(cfg.Analysis.ParseAllManifests))
	analysisService := service.NewAnalysisService(*cfg, githubService, treeWalker, estimation.NewDefaultScorer(), estimation.DefaultPolicy())
	apiController := controller.NewAPIController(*cfg, analysisService)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	router.Use(
		gin.Recovery(),
		logger.RequestLogger(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("")
	{
		api.GET("/analysis", apiController.GetAnalysis)
		api.GET("/health", apiController.GetHealth)
	}

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// running analyses have up to 15 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}

// setupRateLimiter mirrors the current github core limit locally
// tokens already consumed by other clients are removed so the limiter stays accurate
func setupRateLimiter(githubClient *github.Client) *rate.Limiter {
	log.Debug("loading current rate limit from github")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil || rateLimits == nil || rateLimits.Core == nil {
		log.WithError(err).Warning("unable to load current github rate limits, using unauthenticated default")
		return rate.NewLimiter(rate.Every(time.Hour/defaultHourlyRateLimit), defaultHourlyRateLimit)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	limit := max(rateLimits.Core.Limit, 1)
	rateLimiter := rate.NewLimiter(rate.Every(time.Hour/time.Duration(limit)), limit)

	if !rateLimiter.AllowN(time.Now(), limit-rateLimits.Core.Remaining) {
		log.Warning("unable to sync the local rate limiter with github remaining requests")
	}

	return rateLimiter
}
