package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertDiagnosticIfAbsent = `-- name: InsertDiagnosticIfAbsent :execrows
INSERT INTO diagnostics (id, user_id, entitlement_id, target_level, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (entitlement_id) DO NOTHING
`

type InsertDiagnosticIfAbsentParams struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	EntitlementID uuid.UUID          `json:"entitlement_id"`
	TargetLevel   string             `json:"target_level"`
	Status        string             `json:"status"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertDiagnosticIfAbsent(ctx context.Context, db DBTX, arg InsertDiagnosticIfAbsentParams) (int64, error) {
	result, err := db.Exec(ctx, insertDiagnosticIfAbsent,
		arg.ID,
		arg.UserID,
		arg.EntitlementID,
		arg.TargetLevel,
		arg.Status,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertLearningPlanIfAbsent = `-- name: InsertLearningPlanIfAbsent :execrows
INSERT INTO learning_plans (id, user_id, entitlement_id, target_level, status, generated_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (entitlement_id) DO NOTHING
`

type InsertLearningPlanIfAbsentParams struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	EntitlementID uuid.UUID          `json:"entitlement_id"`
	TargetLevel   string             `json:"target_level"`
	Status        string             `json:"status"`
	GeneratedBy   string             `json:"generated_by"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertLearningPlanIfAbsent(ctx context.Context, db DBTX, arg InsertLearningPlanIfAbsentParams) (int64, error) {
	result, err := db.Exec(ctx, insertLearningPlanIfAbsent,
		arg.ID,
		arg.UserID,
		arg.EntitlementID,
		arg.TargetLevel,
		arg.Status,
		arg.GeneratedBy,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countArtifactsByUser = `-- name: CountArtifactsByUser :one
SELECT
    (SELECT COUNT(*) FROM diagnostics d WHERE d.user_id = $1 AND d.status = 'pending') AS pending_diagnostics,
    (SELECT COUNT(*) FROM learning_plans lp WHERE lp.user_id = $1 AND lp.status = 'draft') AS draft_learning_plans
`

type CountArtifactsByUserRow struct {
	PendingDiagnostics int64 `json:"pending_diagnostics"`
	DraftLearningPlans int64 `json:"draft_learning_plans"`
}

func (q *Queries) CountArtifactsByUser(ctx context.Context, db DBTX, userID uuid.UUID) (CountArtifactsByUserRow, error) {
	row := db.QueryRow(ctx, countArtifactsByUser, userID)
	var i CountArtifactsByUserRow
	err := row.Scan(&i.PendingDiagnostics, &i.DraftLearningPlans)
	return i, err
}
