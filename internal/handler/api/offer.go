package api

import (
	"net/http"

	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	q queries.OfferQueries
}

func NewOfferHandler(q queries.OfferQueries) *OfferHandler {
	return &OfferHandler{q: q}
}

// @Summary List offers
// @Description Active catalog offers with bilingual names
// @Tags offers
// @Produce json
// @Success 200 {array} resdto.OfferResponse
// @Failure 500 {object} httperr.Response
// @Router /offers [get]
func (h *OfferHandler) List(c *gin.Context) {
	views, err := h.q.ListActive(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromOfferViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
