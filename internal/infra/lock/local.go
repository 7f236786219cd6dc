package lock

import (
	"context"
	"sync"
	"time"

	"entitlement-service/internal/usecase/shared"
)

// LocalLocker is the single-process fallback used when Redis is not
// configured. Entries expire after ttl like their Redis counterparts.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localEntry
	seq   uint64
	nowFn func() time.Time
}

type localEntry struct {
	owner     uint64
	expiresAt time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held:  make(map[string]localEntry),
		nowFn: time.Now,
	}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (shared.Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	if e, ok := l.held[key]; ok && now.Before(e.expiresAt) {
		return nil, shared.ErrLockHeld
	}

	l.seq++
	owner := l.seq
	l.held[key] = localEntry{owner: owner, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if e, ok := l.held[key]; ok && e.owner == owner {
			delete(l.held, key)
		}
		return nil
	}, nil
}
