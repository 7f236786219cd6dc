package sqlc

import (
	"context"

	"github.com/google/uuid"
)

const findUserByID = `-- name: FindUserByID :one
SELECT id, email, name, locale, is_active, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (Users, error) {
	row := db.QueryRow(ctx, findUserByID, id)
	var i Users
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.Locale,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, name, locale, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type CreateUserParams struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Locale   string    `json:"locale"`
	IsActive bool      `json:"is_active"`
}

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (uuid.UUID, error) {
	row := db.QueryRow(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.Locale,
		arg.IsActive,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
