// Command great-appender appends a message to a file as fast as possible and
// reports write throughput until interrupted.
//
//	great-appender --file out.log [--message text] [--per_write bytes] [--verbose]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/vnykmshr/great-appender/internal/app"
	"github.com/vnykmshr/great-appender/internal/version"
	"github.com/vnykmshr/great-appender/pkg/config"
	"github.com/vnykmshr/great-appender/pkg/metrics"
	"github.com/vnykmshr/great-appender/pkg/shutdown"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.999Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load("great-appender", os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Msgf("configuration: %s", err)
	}

	if cfg.ShowVersion {
		fmt.Printf("version: %s\n", version.Version)
		return
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatal().Msgf("could not open nor create file: %s", err)
	}
	defer f.Close()

	flag := shutdown.New()
	stopSignals := shutdown.NotifyOnSignal(flag, os.Interrupt)
	defer stopSignals()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var registry *metrics.Registry
	if cfg.MetricsAddr != "" {
		registry = metrics.DefaultRegistry
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, prometheus.DefaultGatherer); err != nil {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server failed")
			}
		}()
		log.Info().Msgf("metrics available at http://%s/metrics", cfg.MetricsAddr)
	}

	log.Info().Str("file", cfg.File).Str("version", version.Version).Msg("starting")

	_, err = app.Run(ctx, app.Options{
		Dst:      f,
		Out:      os.Stdout,
		Message:  cfg.Message,
		PerWrite: cfg.PerWrite,
		Verbose:  cfg.Verbose,
		Stop:     flag,
		Metrics:  registry,
	})
	if err != nil {
		log.Fatal().Msgf("append to %s: %s", cfg.File, err)
	}
}
