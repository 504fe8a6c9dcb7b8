// Command sdfgenctl serves the composerapi JSON HTTP contract the
// browser-hosted visual editor drives, for callers that want interactive
// compose/validate/render calls instead of one batch sdfgen invocation.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jimmicro/grace"
	_ "github.com/jimmicro/version"
	"github.com/rs/zerolog"

	"github.com/jimyag/sdfgen/internal/composerapi"
	"github.com/jimyag/sdfgen/internal/runconfig"
)

func main() {
	yamlPath := flag.String("config", "", "optional sdfgenctl.yaml configuration file")
	addr := flag.String("addr", ":8080", "address composerapi listens on")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	cfg, err := runconfig.New(*yamlPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	api, err := composerapi.New(*addr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build composerapi")
	}

	logger.Info().Str("addr", *addr).Bool("debug", cfg.Debug).Msg("starting composerapi")

	shepherd := grace.NewShepherd(
		[]grace.Grace{api},
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologGraceLogger{logger: logger}),
	)
	shepherd.Start(context.Background())
}

// zerologGraceLogger implements grace.Logger.
type zerologGraceLogger struct {
	logger zerolog.Logger
}

func (l *zerologGraceLogger) Info(msg string, args ...interface{}) {
	if len(args) > 0 {
		l.logger.Info().Msgf(msg, args...)
		return
	}
	l.logger.Info().Msg(msg)
}

func (l *zerologGraceLogger) Error(msg string, args ...interface{}) {
	if len(args) > 0 {
		l.logger.Error().Msgf(msg, args...)
		return
	}
	l.logger.Error().Msg(msg)
}
