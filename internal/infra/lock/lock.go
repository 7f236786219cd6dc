package lock

import (
	"entitlement-service/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

// NewSessionLocker picks Redis when a client is available.
func NewSessionLocker(client redis.UniversalClient) shared.SessionLocker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client)
}
