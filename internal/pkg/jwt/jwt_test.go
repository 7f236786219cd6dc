//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"entitlement-service/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ValidateToken(t *testing.T) {
	svc := jwt.NewService("secret", "auth.example.com")
	userID := uuid.New()

	t.Run("valid token round trips the user id", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "learner", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "learner", claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "learner", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other", "auth.example.com").GenerateToken(userID, "learner", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwt.NewService("secret", "someone-else").GenerateToken(userID, "learner", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
