//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/handler/api"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/tests/common/httptest"
	"entitlement-service/tests/common/testutil"
	commandsmock "entitlement-service/tests/mock/commands"
	queriesmock "entitlement-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type QuotaHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockQuotaCommands
	mockQueries  *queriesmock.MockQuotaQueries
	handler      *api.QuotaHandler
	userID       uuid.UUID
}

func (s *QuotaHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockQuotaCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockQuotaQueries(s.mockCtrl)
	s.handler = api.NewQuotaHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	s.router.GET("/ai/quota", fakeAuth(s.userID), s.handler.GetQuota)
	s.router.POST("/ai/consume", fakeAuth(s.userID), s.handler.Consume)
	s.router.POST("/ai/check", fakeAuth(s.userID), s.handler.Check)
}

func (s *QuotaHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestQuotaHandlerSuite(t *testing.T) {
	suite.Run(t, new(QuotaHandlerTestSuite))
}

// fakeAuth stands in for the bearer middleware.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

func statusView() *queries.QuotaStatusView {
	expires := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	return &queries.QuotaStatusView{
		DailyQuota:      15,
		DailyUsed:       5,
		DailyRemaining:  10,
		TopupBalance:    60,
		TotalAvailable:  70,
		AccessExpiresAt: &expires,
		ActiveOfferCode: "QUICK",
	}
}

func (s *QuotaHandlerTestSuite) TestGetQuota() {
	s.Run("success: returns the caller's quota", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.userID).Return(statusView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/ai/quota", nil, "bearer-token")

		var body resdto.QuotaStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int32(15), body.DailyQuota)
		s.Equal(int32(70), body.TotalAvailable)
		s.Equal("QUICK", body.ActiveOfferCode)
		s.Require().NotNil(body.AccessExpiresAt)
		s.False(body.IsExpired)
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/ai/quota", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 when the read fails", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.userID).Return(nil, errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/ai/quota", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

func (s *QuotaHandlerTestSuite) TestConsume() {
	reqBody := map[string]any{"inputChars": 1200, "outputChars": 600, "conversationType": "writing"}

	s.Run("success: returns the split charge", func() {
		s.mockCommands.EXPECT().
			Consume(gomock.Any(), s.userID, commands.ConsumeRequest{InputChars: 1200, OutputChars: 600, ConversationType: "writing"}).
			Return(&commands.ConsumeResult{
				MinutesUsed:         2,
				FromDaily:           1,
				FromTopup:           1,
				Source:              quota.SourceTopup,
				DailyRemainingAfter: 0,
				TopupRemainingAfter: 59,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/consume", reqBody, "bearer-token")

		var body resdto.ConsumeQuotaResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Success)
		s.Equal(int32(2), body.Consumed)
		s.Equal(int32(1), body.FromDaily)
		s.Equal(int32(1), body.FromTopup)
		s.Equal("topup", body.Source)
		s.Equal(int32(59), body.TotalAvailable)
	})

	s.Run("success: conversation type defaults to general", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("conversationType", nil))
		s.mockCommands.EXPECT().
			Consume(gomock.Any(), s.userID, commands.ConsumeRequest{InputChars: 1200, OutputChars: 600, ConversationType: "general"}).
			Return(&commands.ConsumeResult{MinutesUsed: 2, FromDaily: 2, Source: quota.SourceDaily}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/consume", requestMap, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on negative character counts", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("inputChars", -1))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/consume", requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 402 in English by default", func() {
		s.mockCommands.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInsufficientQuota).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/consume", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "Insufficient AI minutes")

		var body struct {
			Detail map[string]string `json:"detail"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Contains(body.Detail["fr"], "Minutes IA insuffisantes")
		s.Contains(body.Detail["en"], "Top-up Pack")
	})

	s.Run("error: 402 in French when the caller asks for it", func() {
		s.mockCommands.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInsufficientQuota).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/ai/consume", reqBody, "bearer-token",
			map[string]string{"Accept-Language": "fr-CA"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "Minutes IA insuffisantes")
	})

	s.Run("error: 400 when the usage is rejected", func() {
		s.mockCommands.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInvalidUsage).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/consume", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *QuotaHandlerTestSuite) TestCheck() {
	s.Run("success: reports affordability without charging", func() {
		s.mockQueries.EXPECT().Check(gomock.Any(), s.userID, 900, 901).
			Return(&queries.QuotaCheckView{Allowed: true, MinutesRequired: 3, Status: *statusView()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/ai/check",
			map[string]any{"inputChars": 900, "outputChars": 901}, "bearer-token")

		var body resdto.QuotaCheckResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Allowed)
		s.Equal(int32(3), body.MinutesRequired)
		s.Equal(int32(10), body.Status.DailyRemaining)
	})
}
