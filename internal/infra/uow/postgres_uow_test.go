//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"entitlement-service/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped deadlock", errs.Wrap(&pgconn.PgError{Code: "40P01"}, "lock quota"), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestShouldRetry_StopsAtMaxRetries(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	assert.True(t, shouldRetry(deadlock, 0, 3))
	assert.True(t, shouldRetry(deadlock, 2, 3))
	assert.False(t, shouldRetry(deadlock, 3, 3))
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 0; attempt < 4; attempt++ {
		want := time.Duration(1<<attempt) * base
		for i := 0; i < 20; i++ {
			got := calculateBackoff(attempt, base)
			assert.GreaterOrEqual(t, got, want)
			assert.Less(t, got, want+want/5)
		}
	}
}

func TestCryptoRandInt63n_NonPositive(t *testing.T) {
	assert.Zero(t, cryptoRandInt63n(0))
	assert.Zero(t, cryptoRandInt63n(-1))
}
