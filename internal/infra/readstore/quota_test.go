//go:build unit

package readstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockQuotaReadQueries struct {
	mock.Mock
}

func (m *MockQuotaReadQueries) FindAiQuotaByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) (sqlc.AiQuotas, error) {
	args := m.Called(ctx, db, userID)
	return args.Get(0).(sqlc.AiQuotas), args.Error(1)
}

func TestQuotaReadStore_FindByUser(t *testing.T) {
	userID := uuid.New()
	resetAt := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mockReturn sqlc.AiQuotas
		mockError  error
		wantError  bool
		wantKind   infra.RepositoryErrorKind
	}{
		{
			name: "success",
			mockReturn: sqlc.AiQuotas{
				UserID:              userID,
				DailyQuotaMinutes:   15,
				DailyUsedMinutes:    3,
				DailyResetAt:        pgconv.TimeToPgtype(resetAt),
				TopupMinutesBalance: 60,
			},
		},
		{
			name:      "not found (pgx)",
			mockError: pgx.ErrNoRows,
			wantError: true,
			wantKind:  infra.KindNotFound,
		},
		{
			name:      "not found (database/sql)",
			mockError: sql.ErrNoRows,
			wantError: true,
			wantKind:  infra.KindNotFound,
		},
		{
			name:      "database error",
			mockError: assert.AnError,
			wantError: true,
			wantKind:  infra.KindDBFailure,
		},
		{
			name:       "corrupt row",
			mockReturn: sqlc.AiQuotas{UserID: userID, TopupMinutesBalance: -5},
			wantError:  true,
			wantKind:   infra.KindDBFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockQuotaReadQueries)
			mockQueries.On("FindAiQuotaByUser", mock.Anything, mock.Anything, userID).Return(tt.mockReturn, tt.mockError)

			readStore := NewQuotaReadStore(mockQueries, nil)

			q, err := readStore.FindByUser(context.Background(), userID)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, q)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
				st := q.StatusAt(resetAt.Add(time.Hour))
				assert.Equal(t, int32(3), st.DailyUsed)
				assert.Equal(t, int32(60), st.TopupBalance)
				assert.Nil(t, st.AccessExpiresAt)
			}

			mockQueries.AssertExpectations(t)
		})
	}
}
