package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// The no-op update makes RETURNING yield the existing row on conflict.
const upsertEntitlement = `-- name: UpsertEntitlement :one
INSERT INTO entitlements (
    id, user_id, purchase_id, offer_id, offer_code, coaching_minutes_total, coaching_minutes_used,
    simulations_total, simulations_used, has_diagnostic, has_learning_plan, has_ai_coach,
    valid_from, valid_until, status
) VALUES (
    $1, $2, $3, $4, $5, $6, 0, $7, 0, $8, $9, $10, $11, $12, 'active'
)
ON CONFLICT (purchase_id) DO UPDATE SET purchase_id = entitlements.purchase_id
RETURNING id, (xmax = 0) AS inserted
`

type UpsertEntitlementParams struct {
	ID                   uuid.UUID          `json:"id"`
	UserID               uuid.UUID          `json:"user_id"`
	PurchaseID           uuid.UUID          `json:"purchase_id"`
	OfferID              uuid.UUID          `json:"offer_id"`
	OfferCode            string             `json:"offer_code"`
	CoachingMinutesTotal int32              `json:"coaching_minutes_total"`
	SimulationsTotal     int32              `json:"simulations_total"`
	HasDiagnostic        bool               `json:"has_diagnostic"`
	HasLearningPlan      bool               `json:"has_learning_plan"`
	HasAiCoach           bool               `json:"has_ai_coach"`
	ValidFrom            pgtype.Timestamptz `json:"valid_from"`
	ValidUntil           pgtype.Timestamptz `json:"valid_until"`
}

type UpsertEntitlementRow struct {
	ID       uuid.UUID `json:"id"`
	Inserted bool      `json:"inserted"`
}

func (q *Queries) UpsertEntitlement(ctx context.Context, db DBTX, arg UpsertEntitlementParams) (UpsertEntitlementRow, error) {
	row := db.QueryRow(ctx, upsertEntitlement,
		arg.ID,
		arg.UserID,
		arg.PurchaseID,
		arg.OfferID,
		arg.OfferCode,
		arg.CoachingMinutesTotal,
		arg.SimulationsTotal,
		arg.HasDiagnostic,
		arg.HasLearningPlan,
		arg.HasAiCoach,
		arg.ValidFrom,
		arg.ValidUntil,
	)
	var i UpsertEntitlementRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const listEntitlementsByUser = `-- name: ListEntitlementsByUser :many
SELECT id, user_id, purchase_id, offer_id, offer_code, coaching_minutes_total, coaching_minutes_used,
       coaching_minutes_remaining, simulations_total, simulations_used, has_diagnostic,
       has_learning_plan, has_ai_coach, valid_from, valid_until, status, created_at
FROM entitlements
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) ListEntitlementsByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]Entitlements, error) {
	rows, err := db.Query(ctx, listEntitlementsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entitlements
	for rows.Next() {
		var i Entitlements
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.PurchaseID,
			&i.OfferID,
			&i.OfferCode,
			&i.CoachingMinutesTotal,
			&i.CoachingMinutesUsed,
			&i.CoachingMinutesRemaining,
			&i.SimulationsTotal,
			&i.SimulationsUsed,
			&i.HasDiagnostic,
			&i.HasLearningPlan,
			&i.HasAiCoach,
			&i.ValidFrom,
			&i.ValidUntil,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
