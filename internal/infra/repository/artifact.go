package repository

import (
	"context"

	"entitlement-service/internal/domain/artifact"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
)

type ArtifactWriteQueries interface {
	InsertDiagnosticIfAbsent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertDiagnosticIfAbsentParams) (int64, error)
	InsertLearningPlanIfAbsent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertLearningPlanIfAbsentParams) (int64, error)
}

type ArtifactRepository struct {
	queries ArtifactWriteQueries
}

func NewArtifactRepository(queries ArtifactWriteQueries) *ArtifactRepository {
	return &ArtifactRepository{queries: queries}
}

func (r *ArtifactRepository) CreateDiagnostic(ctx context.Context, tx sqlc.DBTX, d *artifact.Diagnostic) (bool, error) {
	n, err := r.queries.InsertDiagnosticIfAbsent(ctx, tx, sqlc.InsertDiagnosticIfAbsentParams{
		ID:            d.ID,
		UserID:        d.UserID,
		EntitlementID: d.EntitlementID,
		TargetLevel:   d.TargetLevel,
		Status:        string(d.Status),
		CreatedAt:     pgconv.TimeToPgtype(d.CreatedAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to create diagnostic", err)
	}
	return n > 0, nil
}

func (r *ArtifactRepository) CreateLearningPlan(ctx context.Context, tx sqlc.DBTX, lp *artifact.LearningPlan) (bool, error) {
	n, err := r.queries.InsertLearningPlanIfAbsent(ctx, tx, sqlc.InsertLearningPlanIfAbsentParams{
		ID:            lp.ID,
		UserID:        lp.UserID,
		EntitlementID: lp.EntitlementID,
		TargetLevel:   lp.TargetLevel,
		Status:        string(lp.Status),
		GeneratedBy:   lp.GeneratedBy,
		CreatedAt:     pgconv.TimeToPgtype(lp.CreatedAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to create learning plan", err)
	}
	return n > 0, nil
}
