//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, name, locale string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, name, locale, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, name, locale)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

// QuotaRow is the stored ai_quotas state of one user.
type QuotaRow struct {
	DailyQuota      int32
	DailyUsed       int32
	TopupBalance    int32
	ActiveOfferCode *string
	AccessExpiresAt *time.Time
}

func GetQuota(t *testing.T, db DBLike, userID uuid.UUID) QuotaRow {
	t.Helper()

	var q QuotaRow
	err := db.QueryRow(context.Background(),
		`SELECT daily_quota_minutes, daily_used_minutes, topup_minutes_balance, active_offer_code, access_expires_at
		   FROM ai_quotas WHERE user_id = $1`, userID).
		Scan(&q.DailyQuota, &q.DailyUsed, &q.TopupBalance, &q.ActiveOfferCode, &q.AccessExpiresAt)
	require.NoError(t, err)
	return q
}

// EntitlementRow is the stored entitlements row of one purchase.
type EntitlementRow struct {
	ID                   uuid.UUID
	OfferCode            string
	CoachingMinutesTotal int32
	ValidFrom            time.Time
	ValidUntil           time.Time
	Status               string
}

func GetEntitlementBySession(t *testing.T, db DBLike, sessionID string) EntitlementRow {
	t.Helper()

	var e EntitlementRow
	err := db.QueryRow(context.Background(),
		`SELECT e.id, e.offer_code, e.coaching_minutes_total, e.valid_from, e.valid_until, e.status
		   FROM entitlements e JOIN purchases p ON p.id = e.purchase_id
		  WHERE p.checkout_session_id = $1`, sessionID).
		Scan(&e.ID, &e.OfferCode, &e.CoachingMinutesTotal, &e.ValidFrom, &e.ValidUntil, &e.Status)
	require.NoError(t, err)
	return e
}

// SetDailyUsed moves the daily counter directly, e.g. to stage a day that is
// almost used up.
func SetDailyUsed(t *testing.T, db DBLike, userID uuid.UUID, used int32) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE ai_quotas SET daily_used_minutes = $2 WHERE user_id = $1", userID, used)
	require.NoError(t, err)
}

func Count(t *testing.T, db DBLike, query string, args ...any) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), query, args...).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates everything except the migration bookkeeping and the
// seeded offer catalog.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'offers')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
