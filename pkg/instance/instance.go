package instance

import "github.com/angelmondragon/spa-storefront/pkg/env"

// GetID returns an identifier for this process, used to tag log lines.
// SPA_INSTANCE_ID wins, then the platform dyno name, then the hostname.
func GetID() string {
	return env.First("local", "SPA_INSTANCE_ID", "DYNO", "HOSTNAME")
}
