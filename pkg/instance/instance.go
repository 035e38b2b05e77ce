package instance

import (
	"os"
	"strings"
)

const (
	EnvInstanceID = "ORDERING_INSTANCE_ID"
	envDyno       = "DYNO"
	defaultID     = "local"
)

// GetID returns the API instance identifier, falling back to the platform
// dyno name and then to a default value.
func GetID() string {
	for _, key := range []string{EnvInstanceID, envDyno} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return defaultID
}
