package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

// Setup replaces the global zerolog logger. Development logs go to a
// console writer, production logs are JSON; LOG_FILE adds a rotating file.
func Setup(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		})
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
