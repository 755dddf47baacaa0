package commands

import "os"

// envOr returns flagValue if set, otherwise falls back to the named
// environment variable — the same explicit-flag-wins-over-env pattern the
// storage service's config loader used for its defaults.
func envOr(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}
