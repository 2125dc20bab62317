package controller

import (
	"errors"
	"net/http"

	"dentsim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto distinct, stable
// HTTP responses; anything unrecognized is logged and surfaced as a 500.
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSessionCompleted),
		errors.Is(err, util.ErrAlreadySettled):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrNameTaken):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrEmptyCatalog):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, util.ErrUpstreamTimeout):
		util.Error(ctx, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, util.ErrUpstreamUnavailable):
		util.Error(ctx, http.StatusBadGateway, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
