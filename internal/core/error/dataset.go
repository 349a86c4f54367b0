package errx

import "net/http"

// WrapDataset maps Titanic database failures to the unified AppError type.
func WrapDataset(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusInternalServerError, DatasetErrorMessage)
}
