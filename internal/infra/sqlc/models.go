package sqlc

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Users struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Locale    string             `json:"locale"`
	IsActive  bool               `json:"is_active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Offers struct {
	ID                   uuid.UUID          `json:"id"`
	Code                 string             `json:"code"`
	Version              int32              `json:"version"`
	Kind                 string             `json:"kind"`
	NameEn               string             `json:"name_en"`
	NameFr               string             `json:"name_fr"`
	PriceCents           int64              `json:"price_cents"`
	Currency             string             `json:"currency"`
	CoachingMinutes      int32              `json:"coaching_minutes"`
	AiDailyMinutes       int32              `json:"ai_daily_minutes"`
	AccessDurationMonths int32              `json:"access_duration_months"`
	TopupMinutes         int32              `json:"topup_minutes"`
	IncludesDiagnostic   bool               `json:"includes_diagnostic"`
	IncludesLearningPlan bool               `json:"includes_learning_plan"`
	SimulationsIncluded  int32              `json:"simulations_included"`
	IsActive             bool               `json:"is_active"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

type Purchases struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	OfferID           uuid.UUID          `json:"offer_id"`
	OfferCode         string             `json:"offer_code"`
	CheckoutSessionID string             `json:"checkout_session_id"`
	PaymentIntentID   pgtype.Text        `json:"payment_intent_id"`
	CustomerID        pgtype.Text        `json:"customer_id"`
	AmountCents       int64              `json:"amount_cents"`
	Currency          string             `json:"currency"`
	Status            string             `json:"status"`
	Locale            string             `json:"locale"`
	PaidAt            pgtype.Timestamptz `json:"paid_at"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type Entitlements struct {
	ID                       uuid.UUID          `json:"id"`
	UserID                   uuid.UUID          `json:"user_id"`
	PurchaseID               uuid.UUID          `json:"purchase_id"`
	OfferID                  uuid.UUID          `json:"offer_id"`
	OfferCode                string             `json:"offer_code"`
	CoachingMinutesTotal     int32              `json:"coaching_minutes_total"`
	CoachingMinutesUsed      int32              `json:"coaching_minutes_used"`
	CoachingMinutesRemaining int32              `json:"coaching_minutes_remaining"`
	SimulationsTotal         int32              `json:"simulations_total"`
	SimulationsUsed          int32              `json:"simulations_used"`
	HasDiagnostic            bool               `json:"has_diagnostic"`
	HasLearningPlan          bool               `json:"has_learning_plan"`
	HasAiCoach               bool               `json:"has_ai_coach"`
	ValidFrom                pgtype.Timestamptz `json:"valid_from"`
	ValidUntil               pgtype.Timestamptz `json:"valid_until"`
	Status                   string             `json:"status"`
	CreatedAt                pgtype.Timestamptz `json:"created_at"`
}

type Diagnostics struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	EntitlementID uuid.UUID          `json:"entitlement_id"`
	TargetLevel   string             `json:"target_level"`
	Status        string             `json:"status"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type LearningPlans struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	EntitlementID uuid.UUID          `json:"entitlement_id"`
	TargetLevel   string             `json:"target_level"`
	Status        string             `json:"status"`
	GeneratedBy   string             `json:"generated_by"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type AiQuotas struct {
	UserID              uuid.UUID          `json:"user_id"`
	DailyQuotaMinutes   int32              `json:"daily_quota_minutes"`
	DailyUsedMinutes    int32              `json:"daily_used_minutes"`
	DailyResetAt        pgtype.Timestamptz `json:"daily_reset_at"`
	TopupMinutesBalance int32              `json:"topup_minutes_balance"`
	ActiveOfferCode     pgtype.Text        `json:"active_offer_code"`
	AccessExpiresAt     pgtype.Timestamptz `json:"access_expires_at"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

type AiQuotaGrants struct {
	PurchaseID   uuid.UUID          `json:"purchase_id"`
	UserID       uuid.UUID          `json:"user_id"`
	OfferCode    string             `json:"offer_code"`
	Kind         string             `json:"kind"`
	DailyMinutes int32              `json:"daily_minutes"`
	TopupMinutes int32              `json:"topup_minutes"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type AiUsageEvents struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"user_id"`
	MinutesUsed         int32              `json:"minutes_used"`
	CharactersInput     int32              `json:"characters_input"`
	CharactersOutput    int32              `json:"characters_output"`
	Source              string             `json:"source"`
	DailyRemainingAfter int32              `json:"daily_remaining_after"`
	TopupRemainingAfter int32              `json:"topup_remaining_after"`
	ConversationType    pgtype.Text        `json:"conversation_type"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

type ProcessedEvents struct {
	EventID           string             `json:"event_id"`
	EventType         string             `json:"event_type"`
	CheckoutSessionID string             `json:"checkout_session_id"`
	PurchaseID        pgtype.UUID        `json:"purchase_id"`
	ProcessedAt       pgtype.Timestamptz `json:"processed_at"`
}

type NotificationJobs struct {
	ID        uuid.UUID          `json:"id"`
	Kind      string             `json:"kind"`
	Topic     string             `json:"topic"`
	DedupeKey string             `json:"dedupe_key"`
	Payload   []byte             `json:"payload"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
	Status    string             `json:"status"`
	Attempts  int32              `json:"attempts"`
	LastError pgtype.Text        `json:"last_error"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
