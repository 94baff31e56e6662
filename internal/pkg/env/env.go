package env

import (
	"fmt"
	"os"
	"strings"

	cenv "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func SetupEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/jipsalddae to project root
		"../../../.env", // Fallback for deeper nesting
	}

	var err error
	for _, envFile := range envFiles {
		Env, err = godotenv.Read(envFile)
		if err == nil {
			// Successfully loaded env file
			return
		}
	}

	// Containers get their configuration from the environment only
	if os.Getenv("APP_ENV") != "" {
		Env = map[string]string{}
		return
	}

	// If we get here, no env file was found
	panic("No .env file found in any of the expected locations")
}

// Parse fills a config struct tagged with `env:"..."` from the .env file and the
// OS environment. Values from the .env file win, as in GetEnv.
func Parse(target any) error {
	if err := cenv.ParseWithOptions(target, cenv.Options{Environment: merged()}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func merged() map[string]string {
	out := make(map[string]string, len(Env))
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	for k, v := range Env {
		out[k] = v
	}
	return out
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
