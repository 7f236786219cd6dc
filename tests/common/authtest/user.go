//go:build unit || e2e

package authtest

import (
	"testing"

	"entitlement-service/internal/pkg/config"
	"entitlement-service/tests/common/dbtest"

	"github.com/google/uuid"
)

// CreateLearner inserts a user and returns a bearer token for them.
func CreateLearner(t *testing.T, db dbtest.DBLike, cfg config.JWTConfig, email, locale string) (uuid.UUID, string) {
	t.Helper()
	userID := dbtest.CreateTestUser(t, db, email, "Test Learner", locale)
	return userID, NewJWTHelper(cfg).GenerateToken(t, userID)
}
