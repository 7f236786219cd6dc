package api

import (
	"net/http"

	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	q queries.PurchaseQueries
}

func NewPurchaseHandler(q queries.PurchaseQueries) *PurchaseHandler {
	return &PurchaseHandler{q: q}
}

// @Summary Get purchase by checkout session
// @Description Purchase status for one of the caller's checkout sessions
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Checkout session ID"
// @Success 200 {object} resdto.PurchaseResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /purchases/{sessionId} [get]
func (h *PurchaseHandler) GetBySession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.q.GetBySession(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		if errs.Is(err, queries.ErrPurchaseNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromPurchaseRM(p)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
