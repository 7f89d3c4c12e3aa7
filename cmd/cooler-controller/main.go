package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/db"
	"github.com/coldloop/cooler-controller/internal/config"
	"github.com/coldloop/cooler-controller/internal/datadog"
	"github.com/coldloop/cooler-controller/internal/kraken"
	"github.com/coldloop/cooler-controller/internal/logging"
	"github.com/coldloop/cooler-controller/internal/model"
	"github.com/coldloop/cooler-controller/internal/monitor"
	"github.com/coldloop/cooler-controller/internal/version"
	"github.com/coldloop/cooler-controller/system/startup"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	log.Info().
		Str("db_file", cfg.DBFile).
		Str("version", version.Current).
		Msg("Starting cooler controller")

	if cfg.InstallService {
		if err := startup.InstallService(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to install systemd service")
		}
		log.Info().Str("path", cfg.MainServicePath).Msg("Service unit installed")
		return
	}

	datadog.InitMetrics(cfg)

	dbConn, err := db.Open(cfg.DBFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open profile database")
	}
	defer dbConn.Close()

	dev, err := kraken.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cooler device")
	}
	defer dev.Close()

	m := monitor.New(dbConn, dev, &logListener{}, version.NewChecker(cfg.UpdateCheckURL))
	if err := m.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start monitor")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	m.Stop()
}

// logListener is the headless presentation layer: telemetry and apply
// outcomes go to the structured log.
type logListener struct{}

func (logListener) OnStatus(status model.Status) {
	event := log.Info().Float64("liquid_temp", status.LiquidTemperature)
	if status.FanSpeed != nil {
		event = event.Int("fan", *status.FanSpeed)
	}
	if status.PumpSpeed != nil {
		event = event.Int("pump", *status.PumpSpeed)
	}
	event.Msg("Status")
}

func (logListener) OnApplyResult(r model.ApplyResult) {
	if r.Err != nil {
		log.Error().Err(r.Err).
			Str("channel", string(r.Channel)).
			Str("profile", r.ProfileName).
			Msg("Error applying speed profile")
		return
	}
	log.Info().
		Str("channel", string(r.Channel)).
		Str("profile", r.ProfileName).
		Msg("Speed profile applied")
}

func (logListener) OnVersionAvailable(v string) {
	log.Info().Str("version", v).Msg("A newer release is available")
}

func (logListener) OnPollError(err error) {
	log.Warn().Err(err).Msg("Status refresh failed")
}
