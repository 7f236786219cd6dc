package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Re-delivery of the same checkout session updates in place. A purchase that
// already reached a terminal status keeps it.
const upsertPaidPurchase = `-- name: UpsertPaidPurchase :one
INSERT INTO purchases (
    id, user_id, offer_id, offer_code, checkout_session_id, payment_intent_id, customer_id,
    amount_cents, currency, status, locale, paid_at, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, 'paid', $10, $11, $12, $12
)
ON CONFLICT (checkout_session_id) DO UPDATE SET
    status            = CASE WHEN purchases.status IN ('refunded', 'disputed') THEN purchases.status ELSE 'paid' END,
    payment_intent_id = COALESCE(EXCLUDED.payment_intent_id, purchases.payment_intent_id),
    customer_id       = COALESCE(EXCLUDED.customer_id, purchases.customer_id),
    paid_at           = COALESCE(purchases.paid_at, EXCLUDED.paid_at),
    updated_at        = EXCLUDED.updated_at
RETURNING id, status, (xmax = 0) AS inserted
`

type UpsertPaidPurchaseParams struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	OfferID           uuid.UUID          `json:"offer_id"`
	OfferCode         string             `json:"offer_code"`
	CheckoutSessionID string             `json:"checkout_session_id"`
	PaymentIntentID   pgtype.Text        `json:"payment_intent_id"`
	CustomerID        pgtype.Text        `json:"customer_id"`
	AmountCents       int64              `json:"amount_cents"`
	Currency          string             `json:"currency"`
	Locale            string             `json:"locale"`
	PaidAt            pgtype.Timestamptz `json:"paid_at"`
	Now               pgtype.Timestamptz `json:"now"`
}

type UpsertPaidPurchaseRow struct {
	ID       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	Inserted bool      `json:"inserted"`
}

func (q *Queries) UpsertPaidPurchase(ctx context.Context, db DBTX, arg UpsertPaidPurchaseParams) (UpsertPaidPurchaseRow, error) {
	row := db.QueryRow(ctx, upsertPaidPurchase,
		arg.ID,
		arg.UserID,
		arg.OfferID,
		arg.OfferCode,
		arg.CheckoutSessionID,
		arg.PaymentIntentID,
		arg.CustomerID,
		arg.AmountCents,
		arg.Currency,
		arg.Locale,
		arg.PaidAt,
		arg.Now,
	)
	var i UpsertPaidPurchaseRow
	err := row.Scan(&i.ID, &i.Status, &i.Inserted)
	return i, err
}

const findPurchaseBySessionForUser = `-- name: FindPurchaseBySessionForUser :one
SELECT p.id, p.user_id, p.offer_id, p.offer_code, p.checkout_session_id, p.amount_cents,
       p.currency, p.status, p.locale, p.paid_at, p.created_at, o.kind AS offer_kind,
       o.name_en AS offer_name_en, o.name_fr AS offer_name_fr
FROM purchases p
JOIN offers o ON o.id = p.offer_id
WHERE p.checkout_session_id = $1 AND p.user_id = $2
`

type FindPurchaseBySessionForUserParams struct {
	CheckoutSessionID string    `json:"checkout_session_id"`
	UserID            uuid.UUID `json:"user_id"`
}

type FindPurchaseBySessionForUserRow struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	OfferID           uuid.UUID          `json:"offer_id"`
	OfferCode         string             `json:"offer_code"`
	CheckoutSessionID string             `json:"checkout_session_id"`
	AmountCents       int64              `json:"amount_cents"`
	Currency          string             `json:"currency"`
	Status            string             `json:"status"`
	Locale            string             `json:"locale"`
	PaidAt            pgtype.Timestamptz `json:"paid_at"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	OfferKind         string             `json:"offer_kind"`
	OfferNameEn       string             `json:"offer_name_en"`
	OfferNameFr       string             `json:"offer_name_fr"`
}

func (q *Queries) FindPurchaseBySessionForUser(ctx context.Context, db DBTX, arg FindPurchaseBySessionForUserParams) (FindPurchaseBySessionForUserRow, error) {
	row := db.QueryRow(ctx, findPurchaseBySessionForUser, arg.CheckoutSessionID, arg.UserID)
	var i FindPurchaseBySessionForUserRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.OfferID,
		&i.OfferCode,
		&i.CheckoutSessionID,
		&i.AmountCents,
		&i.Currency,
		&i.Status,
		&i.Locale,
		&i.PaidAt,
		&i.CreatedAt,
		&i.OfferKind,
		&i.OfferNameEn,
		&i.OfferNameFr,
	)
	return i, err
}

const countPurchasesBySession = `-- name: CountPurchasesBySession :one
SELECT COUNT(*) FROM purchases WHERE checkout_session_id = $1
`

func (q *Queries) CountPurchasesBySession(ctx context.Context, db DBTX, checkoutSessionID string) (int64, error) {
	row := db.QueryRow(ctx, countPurchasesBySession, checkoutSessionID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
