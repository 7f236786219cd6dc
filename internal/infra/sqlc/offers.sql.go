package sqlc

import (
	"context"
)

const offerColumns = `id, code, version, kind, name_en, name_fr, price_cents, currency, coaching_minutes,
       ai_daily_minutes, access_duration_months, topup_minutes, includes_diagnostic,
       includes_learning_plan, simulations_included, is_active, created_at`

// inactive offers still resolve: a retired offer may be paid for in flight
const findOfferByCode = `-- name: FindOfferByCode :one
SELECT ` + offerColumns + `
FROM offers
WHERE code = $1
`

func (q *Queries) FindOfferByCode(ctx context.Context, db DBTX, code string) (Offers, error) {
	row := db.QueryRow(ctx, findOfferByCode, code)
	var i Offers
	err := scanOffer(row, &i)
	return i, err
}

const listActiveOffers = `-- name: ListActiveOffers :many
SELECT ` + offerColumns + `
FROM offers
WHERE is_active
ORDER BY kind, price_cents
`

func (q *Queries) ListActiveOffers(ctx context.Context, db DBTX) ([]Offers, error) {
	rows, err := db.Query(ctx, listActiveOffers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Offers
	for rows.Next() {
		var i Offers
		if err := scanOffer(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOffer(row scanner, i *Offers) error {
	return row.Scan(
		&i.ID,
		&i.Code,
		&i.Version,
		&i.Kind,
		&i.NameEn,
		&i.NameFr,
		&i.PriceCents,
		&i.Currency,
		&i.CoachingMinutes,
		&i.AiDailyMinutes,
		&i.AccessDurationMonths,
		&i.TopupMinutes,
		&i.IncludesDiagnostic,
		&i.IncludesLearningPlan,
		&i.SimulationsIncluded,
		&i.IsActive,
		&i.CreatedAt,
	)
}
