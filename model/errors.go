package model

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRepositoryNotFound is returned when the identity does not resolve to a public repository
	ErrRepositoryNotFound = errors.New("REPOSITORY_NOT_FOUND")

	// ErrTransport covers every other failure while talking to github
	ErrTransport = errors.New("FETCH_ERROR")

	// ErrRateLimitReached is a transport error, checking errors.Is(err, ErrTransport) matches it too
	ErrRateLimitReached = fmt.Errorf("RATE_LIMIT_REACHED: %w", ErrTransport)

	ErrInvalidRepositoryURL = errors.New("INVALID_REPOSITORY_URL")

	// ErrParse is never surfaced to users, manifests that fail to parse use a default count
	ErrParse = errors.New("PARSE_ERROR")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrInvalidRepositoryURL):
		return APIError{
			Code:    "INVALID_REPOSITORY_URL",
			Message: "the repository url must look like https://github.com/<owner>/<repository>",
		}

	case errors.Is(errReason, ErrRepositoryNotFound):
		return APIError{
			Code:    "REPOSITORY_NOT_FOUND",
			Message: "repository not found. only public repositories can be analysed",
		}

	case errors.Is(errReason, ErrRateLimitReached):
		return APIError{
			Code:    "RATE_LIMIT_REACHED",
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	case errors.Is(errReason, ErrTransport):
		return APIError{
			Code:    "FETCH_ERROR",
			Message: "unable to fetch repository data from github. try again in a few minutes",
		}

	default:
		return APIError{
			Code:    "GENERIC_ERROR",
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}
}

// HTTPStatus returns the status code matching the error returned by NewAPIError
func HTTPStatus(errReason error) int {
	switch {
	case errors.Is(errReason, ErrInvalidRepositoryURL):
		return http.StatusBadRequest
	case errors.Is(errReason, ErrRepositoryNotFound):
		return http.StatusNotFound
	case errors.Is(errReason, ErrRateLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(errReason, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
