//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"entitlement-service/internal/handler/api"
	resdto "entitlement-service/internal/handler/dto/response"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/readmodel"
	"entitlement-service/tests/common/httptest"
	queriesmock "entitlement-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReadHandlersTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCtrl        *gomock.Controller
	mockEntitlement *queriesmock.MockEntitlementQueries
	mockPurchase    *queriesmock.MockPurchaseQueries
	mockOffer       *queriesmock.MockOfferQueries
	userID          uuid.UUID
}

func (s *ReadHandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockEntitlement = queriesmock.NewMockEntitlementQueries(s.mockCtrl)
	s.mockPurchase = queriesmock.NewMockPurchaseQueries(s.mockCtrl)
	s.mockOffer = queriesmock.NewMockOfferQueries(s.mockCtrl)
	s.userID = uuid.New()

	s.router.GET("/entitlements", fakeAuth(s.userID), api.NewEntitlementHandler(s.mockEntitlement).List)
	s.router.GET("/purchases/:sessionId", fakeAuth(s.userID), api.NewPurchaseHandler(s.mockPurchase).GetBySession)
	s.router.GET("/offers", api.NewOfferHandler(s.mockOffer).List)
}

func (s *ReadHandlersTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReadHandlersSuite(t *testing.T) {
	suite.Run(t, new(ReadHandlersTestSuite))
}

func (s *ReadHandlersTestSuite) TestListEntitlements() {
	validFrom := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rm := &readmodel.EntitlementRM{
		ID:                       uuid.New(),
		PurchaseID:               uuid.New(),
		OfferCode:                "QUICK",
		CoachingMinutesTotal:     900,
		CoachingMinutesRemaining: 900,
		SimulationsTotal:         1,
		HasDiagnostic:            true,
		HasLearningPlan:          true,
		HasAICoach:               true,
		ValidFrom:                validFrom,
		ValidUntil:               validFrom.AddDate(0, 6, 0),
		Status:                   "active",
		CreatedAt:                validFrom,
	}

	s.Run("success: lists the caller's entitlements", func() {
		s.mockEntitlement.EXPECT().ListByUser(gomock.Any(), s.userID).
			Return([]*readmodel.EntitlementRM{rm}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/entitlements", nil, "bearer-token")

		var body []resdto.EntitlementResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal(rm.ID.String(), body[0].ID)
		s.Equal(rm.PurchaseID.String(), body[0].PurchaseID)
		s.Equal(int32(900), body[0].CoachingMinutesRemaining)
		s.True(body[0].HasAICoach)
		s.True(rm.ValidUntil.Equal(body[0].ValidUntil))
	})

	s.Run("success: empty list is an array", func() {
		s.mockEntitlement.EXPECT().ListByUser(gomock.Any(), s.userID).
			Return([]*readmodel.EntitlementRM{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/entitlements", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/entitlements", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *ReadHandlersTestSuite) TestGetPurchaseBySession() {
	s.Run("success: returns the purchase", func() {
		paidAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		rm := &readmodel.PurchaseRM{
			ID:                uuid.New(),
			UserID:            s.userID,
			OfferCode:         "BOOST",
			OfferKind:         "main",
			OfferNameEN:       "Boost",
			OfferNameFR:       "Boost",
			CheckoutSessionID: "cs_test_1",
			AmountCents:       6700,
			Currency:          "CAD",
			Status:            "paid",
			Locale:            "fr",
			PaidAt:            &paidAt,
			CreatedAt:         paidAt,
		}
		s.mockPurchase.EXPECT().GetBySession(gomock.Any(), s.userID, "cs_test_1").Return(rm, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/purchases/cs_test_1", nil, "bearer-token")

		var body resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(rm.ID.String(), body.ID)
		s.Equal("BOOST", body.OfferCode)
		s.Equal(int64(6700), body.AmountCents)
		s.Equal("paid", body.Status)
	})

	s.Run("error: 404 for an unknown or foreign session", func() {
		s.mockPurchase.EXPECT().GetBySession(gomock.Any(), s.userID, "cs_other").
			Return(nil, errs.Wrap(queries.ErrPurchaseNotFound, "cs_other")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/purchases/cs_other", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 500 when the read fails", func() {
		s.mockPurchase.EXPECT().GetBySession(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/purchases/cs_test_1", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}

func (s *ReadHandlersTestSuite) TestListOffers() {
	s.Run("success: public catalog without a token", func() {
		s.mockOffer.EXPECT().ListActive(gomock.Any()).Return([]*queries.OfferView{
			{Code: "QUICK", Kind: "main", NameEN: "Quick Prep", NameFR: "Préparation rapide", PriceCents: 29900, Currency: "CAD", AIDailyMinutes: 15},
			{Code: "AI_TOPUP_60", Kind: "topup", NameEN: "AI Top-up 60", PriceCents: 3900, Currency: "CAD", TopupMinutes: 60},
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/offers", nil, "")

		var body []resdto.OfferResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 2)
		s.Equal("Préparation rapide", body[0].NameFR)
		s.Equal(int32(60), body[1].TopupMinutes)
	})
}
