package api

import (
	"net/http"

	reqdto "entitlement-service/internal/handler/dto/request"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	cmds commands.FulfillmentCommands
}

func NewWebhookHandler(cmds commands.FulfillmentCommands) *WebhookHandler {
	return &WebhookHandler{cmds: cmds}
}

// @Summary Checkout webhook
// @Description Fulfill a completed checkout session. Other event types are acknowledged and ignored.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutEventRequest true "Processor event"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /webhooks/checkout [post]
func (h *WebhookHandler) Checkout(c *gin.Context) {
	var req reqdto.CheckoutEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid event payload", nil)
		return
	}

	result, err := h.cmds.Fulfill(c.Request.Context(), req.Type, req.ToRaw())
	if err != nil {
		handleFulfillmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFulfillmentResult(result))
}

// 4xx tells the processor not to retry, except 409 which it retries later.
func handleFulfillmentError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrFulfillmentInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Fulfillment already in progress", nil)
	case errs.Is(err, commands.ErrInvalidEvent):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid checkout event", gin.H{"reason": err.Error()})
	case errs.Is(err, commands.ErrOfferNotFound):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown offer", nil)
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown user", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Fulfillment failed", nil)
	}
}
