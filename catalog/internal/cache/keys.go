package cache

import "time"

const (
	KEY_CATEGORIES = "catalog:categories"
	// keyed by category id, or "all" when listing without a filter
	KEY_SERVICES = "catalog:services:%s"

	TTL_CATEGORIES = time.Hour
	TTL_SERVICES   = time.Hour
)
