package shared

import (
	"context"
	"time"

	"entitlement-service/internal/pkg/errs"
)

var ErrLockHeld = errs.New("lock is held by another owner")

type Unlock func(ctx context.Context) error

// SessionLocker serializes work on one key across processes. TryLock never
// waits: it fails with ErrLockHeld when another owner has the key.
type SessionLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

type Metrics interface {
	FulfillmentFinished(outcome, offerKind string, elapsed time.Duration)
	FulfillmentStageFailed(stage string)
	QuotaConsumed(source string, minutes int32)
	QuotaRejected()
	NotificationEnqueued(kind string)
	NotificationDelivered(kind, outcome string)
}
