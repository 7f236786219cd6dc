package shared

import (
	"time"

	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/quota"

	"github.com/google/uuid"
)

type PurchaseUpsert struct {
	ID      uuid.UUID
	Status  purchase.Status
	Created bool
}

type QuotaGrant struct {
	PurchaseID   uuid.UUID
	UserID       uuid.UUID
	OfferCode    string
	Kind         offer.Kind
	DailyMinutes int32
	TopupMinutes int32
}

type UsageRecord struct {
	UserID           uuid.UUID
	Usage            quota.Usage
	InputChars       int32
	OutputChars      int32
	ConversationType string
	At               time.Time
}

type ProcessedEvent struct {
	EventID           string
	EventType         string
	CheckoutSessionID string
	PurchaseID        uuid.UUID
	At                time.Time
}

type NotificationKind string

const (
	NotificationEmail NotificationKind = "email"
	NotificationEvent NotificationKind = "event"
)

type NotificationJob struct {
	Kind      NotificationKind
	Topic     string
	DedupeKey string
	Payload   []byte
	RunAt     time.Time
}
