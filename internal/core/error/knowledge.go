package errx

import (
	"errors"
	"net/http"

	"github.com/datacation/titanic-analyst/internal/knowledge"
)

// WrapKnowledge maps knowledge store errors to the unified AppError type.
// Configuration and storage failures are fatal-at-startup conditions;
// persistence failures are retryable by the caller.
func WrapKnowledge(err error) error {
	if err == nil {
		return nil
	}

	var cfgErr *knowledge.ConfigurationError
	var storErr *knowledge.StorageError
	var persErr *knowledge.PersistenceError
	var valErr *knowledge.ValidationError

	switch {
	case errors.As(err, &cfgErr), errors.As(err, &storErr):
		return New(err, http.StatusInternalServerError, KnowledgeErrorMessage)
	case errors.As(err, &persErr):
		return New(err, http.StatusServiceUnavailable, KnowledgeErrorMessage)
	case errors.As(err, &valErr):
		return New(err, http.StatusBadRequest, KnowledgeErrorMessage)
	default:
		return New(err, http.StatusInternalServerError, KnowledgeErrorMessage)
	}
}
