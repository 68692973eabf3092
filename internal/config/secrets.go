package config

import (
	"fmt"
	"os"
)

// ResolveSecret returns the direct value when set, otherwise the named environment variable.
func ResolveSecret(direct, envName string) string {
	if direct != "" {
		return direct
	}
	if envName != "" {
		return os.Getenv(envName)
	}
	return ""
}

// RequireSecret is ResolveSecret that fails when neither source has a value.
func RequireSecret(direct, envName string) (string, error) {
	value := ResolveSecret(direct, envName)
	if value == "" {
		return "", fmt.Errorf("API key not found in config or environment variable %s", envName)
	}
	return value, nil
}
