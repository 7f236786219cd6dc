package shared

import (
	"context"
	"time"

	"entitlement-service/internal/domain/artifact"
	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra/sqlc"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Purchases() PurchaseRepository
	Entitlements() EntitlementRepository
	Quotas() QuotaRepository
	Artifacts() ArtifactRepository
	ProcessedEvents() ProcessedEventRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

type CommandReads interface {
	OfferByCode(ctx context.Context, code string) (*offer.Offer, error)
	UserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
}

type PurchaseRepository interface {
	Upsert(ctx context.Context, tx sqlc.DBTX, p *purchase.Purchase) (*PurchaseUpsert, error)
}

type EntitlementRepository interface {
	// Upsert returns the id of the entitlement for the purchase and whether this call created it.
	Upsert(ctx context.Context, tx sqlc.DBTX, e *entitlement.Entitlement) (uuid.UUID, bool, error)
}

type QuotaRepository interface {
	// LockForUpdate creates the row if absent and holds its row lock until the transaction ends.
	LockForUpdate(ctx context.Context, tx sqlc.DBTX, userID uuid.UUID, now time.Time) (*quota.AIQuota, error)
	// RecordGrant returns false when the purchase already moved the quota.
	RecordGrant(ctx context.Context, tx sqlc.DBTX, grant QuotaGrant) (bool, error)
	Save(ctx context.Context, tx sqlc.DBTX, q *quota.AIQuota) error
	AppendUsage(ctx context.Context, tx sqlc.DBTX, rec UsageRecord) error
}

type ArtifactRepository interface {
	CreateDiagnostic(ctx context.Context, tx sqlc.DBTX, d *artifact.Diagnostic) (bool, error)
	CreateLearningPlan(ctx context.Context, tx sqlc.DBTX, lp *artifact.LearningPlan) (bool, error)
}

type ProcessedEventRepository interface {
	MarkProcessed(ctx context.Context, tx sqlc.DBTX, ev ProcessedEvent) error
}

type NotificationRepository interface {
	// Enqueue returns false when a job with the same dedupe key exists.
	Enqueue(ctx context.Context, tx sqlc.DBTX, job NotificationJob) (bool, error)
}
