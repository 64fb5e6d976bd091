// Package logx configures the process-wide zerolog logger.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `split_words:"true" default:"info"`
	// PrettyFormat switches to the human-readable console writer for local
	// runs; deployments keep JSON lines.
	PrettyFormat bool `split_words:"true" default:"false"`
	// Service is stamped on every log line.
	Service string `split_words:"true" default:"bookline"`
}

// Init replaces the global logger. Call it once at process start.
func Init(conf Config) {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if conf.PrettyFormat {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	}

	log.Logger = logger.Level(level).With().
		Timestamp().
		Str("service", conf.Service).
		Caller().
		Logger()
}
