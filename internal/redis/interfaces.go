package redis

import "transit/internal/service"

// Compile-time checks that the stores satisfy the service-side contracts.
var (
	_ service.DriverLocationStore = (*LocationStore)(nil)
	_ service.ConfirmLocker       = (*LockStore)(nil)
	_ service.StatsCache          = (*CacheStore)(nil)
)
