package config

import (
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
)

// LoadEnv loads .env into the process environment when the file is present.
// A missing file is fine; variables may come from the environment itself.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		zlog.Debug().Msg("no .env file, using process environment")
		return
	}
	zlog.Debug().Msg(".env loaded")
}
