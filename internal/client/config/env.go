package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// parseEnv overlays Config with TASKDESK_* environment variables. Variables
// from dotenvPath are loaded first without overriding ones already set; a
// missing file is not an error. Unset variables leave fields unchanged.
// Panics on a malformed .env file or an unparsable value.
func parseEnv(cfg *Config, dotenvPath string) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if err := env.Load(cfg, nil); err != nil {
		panic(err)
	}
}
