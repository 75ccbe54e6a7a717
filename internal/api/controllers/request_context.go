package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

// callerID reads the authenticated user set by the JWT middleware. It writes
// the 401 itself when there is none.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Access token required")
		return uuid.Nil, false
	}
	return id, true
}

// optionalCaller is nil for anonymous requests.
func optionalCaller(c *gin.Context) *uuid.UUID {
	id, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		return nil
	}
	return &id
}

func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
