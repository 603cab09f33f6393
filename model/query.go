package model

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// repositoryURLPattern accepts https://github.com/<owner>/<repo> with an optional trailing slash
var repositoryURLPattern = regexp.MustCompile(`^https://github\.com/([A-Za-z0-9._-]+)/([A-Za-z0-9._-]+)/?$`)

type AnalysisQuery struct {
	URL string `form:"url" binding:"required,githubrepo"`
}

// ParseRepositoryURL extracts owner and repository name from a github url
// it never issues a network call, invalid urls are rejected here
func ParseRepositoryURL(rawURL string) (RepositoryIdentity, error) {
	matches := repositoryURLPattern.FindStringSubmatch(rawURL)
	if matches == nil {
		return RepositoryIdentity{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryURL, rawURL)
	}

	return RepositoryIdentity{Owner: matches[1], Name: matches[2]}, nil
}

// RegisterValidators adds the githubrepo tag used by gin query binding
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("githubrepo", func(fl validator.FieldLevel) bool {
		_, err := ParseRepositoryURL(fl.Field().String())
		return err == nil
	})
}
