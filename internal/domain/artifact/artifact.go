package artifact

import (
	"time"

	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// DefaultTargetLevel is the placeholder proficiency target until the learner
// completes the diagnostic.
const DefaultTargetLevel = "BBB"

var ErrMissingEntitlement = errs.New("artifact requires an entitlement")

type DiagnosticStatus string

const (
	DiagnosticPending   DiagnosticStatus = "pending"
	DiagnosticCompleted DiagnosticStatus = "completed"
)

type LearningPlanStatus string

const (
	LearningPlanDraft  LearningPlanStatus = "draft"
	LearningPlanActive LearningPlanStatus = "active"
)

const GeneratedBySystem = "system"

// Diagnostic placeholder. At most one per entitlement.
type Diagnostic struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	EntitlementID uuid.UUID
	TargetLevel   string
	Status        DiagnosticStatus
	CreatedAt     time.Time
}

// LearningPlan placeholder. At most one per entitlement.
type LearningPlan struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	EntitlementID uuid.UUID
	TargetLevel   string
	Status        LearningPlanStatus
	GeneratedBy   string
	CreatedAt     time.Time
}

func NewPendingDiagnostic(userID, entitlementID uuid.UUID, now time.Time) (*Diagnostic, error) {
	if entitlementID == uuid.Nil {
		return nil, ErrMissingEntitlement
	}
	return &Diagnostic{
		ID:            uuid.New(),
		UserID:        userID,
		EntitlementID: entitlementID,
		TargetLevel:   DefaultTargetLevel,
		Status:        DiagnosticPending,
		CreatedAt:     now,
	}, nil
}

func NewDraftLearningPlan(userID, entitlementID uuid.UUID, now time.Time) (*LearningPlan, error) {
	if entitlementID == uuid.Nil {
		return nil, ErrMissingEntitlement
	}
	return &LearningPlan{
		ID:            uuid.New(),
		UserID:        userID,
		EntitlementID: entitlementID,
		TargetLevel:   DefaultTargetLevel,
		Status:        LearningPlanDraft,
		GeneratedBy:   GeneratedBySystem,
		CreatedAt:     now,
	}, nil
}
