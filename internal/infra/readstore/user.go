package readstore

import (
	"context"

	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	FindUserByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Users, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      sqlc.DBTX
}

func NewUserReadStore(queries UserReadQueries, db sqlc.DBTX) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row, err := s.queries.FindUserByID(ctx, s.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	u, err := converter.UserFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored user is invalid", err)
	}
	return u, nil
}
