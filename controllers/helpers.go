package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/hospitality-suite/services"
	"github.com/yeremiapane/hospitality-suite/utils"
)

// respondServiceError maps the engine error taxonomy onto HTTP codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidDateRange):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrRoomConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidPassword):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrConfigMissing):
		utils.RespondError(c, http.StatusPreconditionFailed, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// actorFrom builds an audit actor string from the authenticated request.
func actorFrom(c *gin.Context) string {
	role, _ := c.Get("role")
	if roleStr, ok := role.(string); ok && roleStr != "" {
		return roleStr
	}
	return "system"
}

func roleFrom(c *gin.Context) string {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)
	return roleStr
}
