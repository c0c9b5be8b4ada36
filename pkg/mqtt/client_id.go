package mqtt

import (
	"strings"

	"github.com/google/uuid"

	"github.com/simulated-city/simcity/pkg/config"
)

// ClientID derives a client identifier from a prefix and an optional
// suffix. A blank prefix falls back to the conventional default so the
// broker never sees an empty identifier.
func ClientID(prefix, suffix string) string {
	safe := strings.TrimSpace(prefix)
	if safe == "" {
		safe = config.DefaultClientIDPrefix
	}
	if suffix == "" {
		return safe
	}
	return safe + "-" + suffix
}

// RandomSuffix returns a short random client-id suffix so several clients
// can share a prefix without colliding on the broker.
func RandomSuffix() string {
	return uuid.NewString()[:8]
}
