package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const enqueueNotificationJob = `-- name: EnqueueNotificationJob :execrows
INSERT INTO notification_jobs (id, kind, topic, dedupe_key, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, $6, 'queued')
ON CONFLICT (dedupe_key) DO NOTHING
`

type EnqueueNotificationJobParams struct {
	ID        uuid.UUID          `json:"id"`
	Kind      string             `json:"kind"`
	Topic     string             `json:"topic"`
	DedupeKey string             `json:"dedupe_key"`
	Payload   []byte             `json:"payload"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
}

func (q *Queries) EnqueueNotificationJob(ctx context.Context, db DBTX, arg EnqueueNotificationJobParams) (int64, error) {
	result, err := db.Exec(ctx, enqueueNotificationJob,
		arg.ID,
		arg.Kind,
		arg.Topic,
		arg.DedupeKey,
		arg.Payload,
		arg.RunAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Rows stay locked until the claiming transaction ends; concurrent
// dispatchers skip them.
const claimDueNotificationJobs = `-- name: ClaimDueNotificationJobs :many
SELECT id, kind, topic, dedupe_key, payload, run_at, status, attempts, last_error, created_at, updated_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED
`

type ClaimDueNotificationJobsParams struct {
	Now   pgtype.Timestamptz `json:"now"`
	Limit int32              `json:"limit"`
}

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJobs
	for rows.Next() {
		var i NotificationJobs
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.DedupeKey,
			&i.Payload,
			&i.RunAt,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const markNotificationJobSent = `-- name: MarkNotificationJobSent :exec
UPDATE notification_jobs
SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = NOW()
WHERE id = $1
`

func (q *Queries) MarkNotificationJobSent(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, markNotificationJobSent, id)
	return err
}

const markNotificationJobRetry = `-- name: MarkNotificationJobRetry :exec
UPDATE notification_jobs
SET attempts = attempts + 1, run_at = $2, last_error = $3, updated_at = NOW()
WHERE id = $1
`

type MarkNotificationJobRetryParams struct {
	ID        uuid.UUID          `json:"id"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
	LastError pgtype.Text        `json:"last_error"`
}

func (q *Queries) MarkNotificationJobRetry(ctx context.Context, db DBTX, arg MarkNotificationJobRetryParams) error {
	_, err := db.Exec(ctx, markNotificationJobRetry, arg.ID, arg.RunAt, arg.LastError)
	return err
}

const markNotificationJobFailed = `-- name: MarkNotificationJobFailed :exec
UPDATE notification_jobs
SET status = 'failed', attempts = attempts + 1, last_error = $2, updated_at = NOW()
WHERE id = $1
`

type MarkNotificationJobFailedParams struct {
	ID        uuid.UUID   `json:"id"`
	LastError pgtype.Text `json:"last_error"`
}

func (q *Queries) MarkNotificationJobFailed(ctx context.Context, db DBTX, arg MarkNotificationJobFailedParams) error {
	_, err := db.Exec(ctx, markNotificationJobFailed, arg.ID, arg.LastError)
	return err
}

const listNotificationJobsByDedupePrefix = `-- name: ListNotificationJobsByDedupePrefix :many
SELECT id, kind, topic, dedupe_key, payload, run_at, status, attempts, last_error, created_at, updated_at
FROM notification_jobs
WHERE dedupe_key LIKE $1 || '%'
ORDER BY created_at, id
`

func (q *Queries) ListNotificationJobsByDedupePrefix(ctx context.Context, db DBTX, prefix string) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, listNotificationJobsByDedupePrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJobs
	for rows.Next() {
		var i NotificationJobs
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.DedupeKey,
			&i.Payload,
			&i.RunAt,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.CreatedAt,
			&i.UpdatedAt,
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
