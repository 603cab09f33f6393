package controller

import (
	"fmt"
	"net/http"

	"github.com/FlorianRuen/repo-cost-estimator/config"
	"github.com/FlorianRuen/repo-cost-estimator/model"
	"github.com/FlorianRuen/repo-cost-estimator/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type APIController interface {
	GetAnalysis(ctx *gin.Context)
	GetHealth(ctx *gin.Context)
}

type apiController struct {
	analysisService service.AnalysisService
	config          config.Config
}

func NewAPIController(config config.Config, service service.AnalysisService) APIController {
	// the query binding relies on the githubrepo tag
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := model.RegisterValidators(v); err != nil {
			log.WithError(err).Error("unable to register request validators")
		}
	}

	return apiController{
		analysisService: service,
		config:          config,
	}
}

func (s apiController) GetAnalysis(c *gin.Context) {
	var analysisQuery model.AnalysisQuery
	if err := c.ShouldBindQuery(&analysisQuery); err != nil {
		invalidErr := fmt.Errorf("%w: %v", model.ErrInvalidRepositoryURL, err)
		c.JSON(model.HTTPStatus(invalidErr), model.NewAPIError(invalidErr))
		return
	}

	// execute the analysis
	report, err := s.analysisService.AnalyzeRepository(c.Request.Context(), analysisQuery.URL)
	if err != nil {
		c.JSON(model.HTTPStatus(err), model.NewAPIError(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s apiController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
