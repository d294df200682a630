package handler

import (
	"errors"
	"net/http"

	"github.com/Pesokrava/reviews_app/internal/delivery/http/response"
	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
)

// writeError maps service errors onto status codes. Not found and rejected
// responses have empty bodies, internal failures never leak details.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Status(w, http.StatusNotFound)
	case errors.Is(err, domain.ErrRejected):
		response.Status(w, http.StatusNotAcceptable)
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		log.Error("Internal error in handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
