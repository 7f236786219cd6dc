package api

import (
	"net/http"

	"entitlement-service/internal/domain/locale"
	reqdto "entitlement-service/internal/handler/dto/request"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/handler/httperr"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const (
	insufficientQuotaEN = "Insufficient AI minutes. Please purchase a Top-up Pack."
	insufficientQuotaFR = "Minutes IA insuffisantes. Veuillez acheter un forfait Top-up."
)

type QuotaHandler struct {
	cmds commands.QuotaCommands
	q    queries.QuotaQueries
}

func NewQuotaHandler(cmds commands.QuotaCommands, q queries.QuotaQueries) *QuotaHandler {
	return &QuotaHandler{cmds: cmds, q: q}
}

// @Summary Get AI quota
// @Description Current AI minutes for the caller. Today's reset is applied to the view only.
// @Tags ai
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.QuotaStatusResponse
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /ai/quota [get]
func (h *QuotaHandler) GetQuota(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	view, err := h.q.GetStatus(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromQuotaStatusView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Consume AI minutes
// @Description Charge one AI exchange against the caller's daily allowance, then top-up balance
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConsumeQuotaRequest true "Exchange size"
// @Success 200 {object} resdto.ConsumeQuotaResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /ai/consume [post]
func (h *QuotaHandler) Consume(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req reqdto.ConsumeQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Consume(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInsufficientQuota):
			abortInsufficientQuota(c, err)
		case errs.Is(err, commands.ErrInvalidUsage):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromConsumeResult(result))
}

// @Summary Check AI minutes
// @Description Whether the caller could afford an exchange of the given size. Nothing is charged.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckQuotaRequest true "Exchange size"
// @Success 200 {object} resdto.QuotaCheckResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /ai/check [post]
func (h *QuotaHandler) Check(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req reqdto.CheckQuotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.q.Check(c.Request.Context(), userID, req.InputChars, req.OutputChars)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	res, err := resdto.FromQuotaCheckView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// abortInsufficientQuota answers in the caller's language and carries both
// translations so clients can pick their own.
func abortInsufficientQuota(c *gin.Context, err error) {
	msg := insufficientQuotaEN
	if locale.Parse(c.GetHeader("Accept-Language"), locale.EN) == locale.FR {
		msg = insufficientQuotaFR
	}
	httperr.AbortWithError(c, http.StatusPaymentRequired, err, msg, gin.H{
		"en": insufficientQuotaEN,
		"fr": insufficientQuotaFR,
	})
}
