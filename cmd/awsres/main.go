// awsres - provision or tear down AWS resources from a YAML inventory.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/awsres/internal/telemetry"
)

func main() {
	// SDK calls in flight see the cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := Execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

// setupLogging installs the global console logger on w.
func setupLogging(w io.Writer, level string, verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w}).Hook(telemetry.TraceHook{})
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}
