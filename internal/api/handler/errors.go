package handler

import (
	"errors"
	"net/http"

	"github.com/Rrens/interaction-drafts/internal/api/response"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// writeError maps domain errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		herr *domain.HTTPError
		nerr *domain.NetworkError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrLastInteraction):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrUnsafeContent):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrSyncDisabled), errors.Is(err, domain.ErrPublishDisabled):
		response.Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrPublishNotConfirmed), errors.As(err, &verr):
		response.BadRequest(w, err.Error())
	case errors.As(err, &herr), errors.As(err, &nerr), errors.Is(err, domain.ErrResponseTooLarge):
		response.BadGateway(w, err.Error())
	default:
		log.Error().Err(err).Msg("Unhandled error")
		response.InternalError(w, "internal error")
	}
}
