package cache

import "time"

const (
	// KEY_SERVICES caches catalog lookups made on add-to-cart; the cart
	// line keeps its own price snapshot, so staleness here never changes
	// an existing line.
	KEY_SERVICES = "cart:services:%s"

	TTL_SERVICES = time.Hour
)
