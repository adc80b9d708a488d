package api

import (
	"errors"
	"net/http"

	"sqlgate/internal/domain"
)

// httpStatusFromDomainError picks the response status for an error escaping a
// handler. Execution errors map to 502: the gateway itself worked, the backing
// engine did not. Anything unrecognized is a 500.
func httpStatusFromDomainError(err error) int {
	var (
		validation   *domain.ValidationError
		accessDenied *domain.AccessDeniedError
		notFound     *domain.NotFoundError
		conflict     *domain.ConflictError
		execution    *domain.ExecutionError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &execution):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
