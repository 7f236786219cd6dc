package api

import (
	"net/http"

	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/handler/middleware"
	"entitlement-service/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errs.New("no authenticated user on request")

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return uuid.Nil, false
	}
	return userID, true
}
