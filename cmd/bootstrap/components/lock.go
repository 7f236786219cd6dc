package components

import (
	"entitlement-service/internal/infra/lock"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		lock.NewSessionLocker,
	),
)
