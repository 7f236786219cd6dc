//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const learnerRole = "learner"

// JWTHelper issues tokens the way the platform's auth service does.
type JWTHelper struct {
	service *jwt.Service
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{service: jwt.NewService(cfg.Secret, cfg.Issuer)}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, learnerRole, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := h.service.GenerateToken(userID, learnerRole, -time.Minute)
	require.NoError(t, err)
	return token
}

// ForeignToken is signed with a secret this service does not trust.
func ForeignToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewService("some-other-secret", "").GenerateToken(userID, learnerRole, time.Hour)
	require.NoError(t, err)
	return token
}
