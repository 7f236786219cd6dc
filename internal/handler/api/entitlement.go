package api

import (
	"net/http"

	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EntitlementHandler struct {
	q queries.EntitlementQueries
}

func NewEntitlementHandler(q queries.EntitlementQueries) *EntitlementHandler {
	return &EntitlementHandler{q: q}
}

// @Summary List entitlements
// @Description The caller's entitlements, newest first
// @Tags entitlements
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.EntitlementResponse
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /entitlements [get]
func (h *EntitlementHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	items, err := h.q.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromEntitlementList(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
