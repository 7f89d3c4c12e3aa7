package config

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"
)

type Config struct {
	DBFile         string
	ConfigFile     string
	LogLevel       zerolog.Level
	InstallService bool

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	// UpdateCheckURL serves the latest released version as a plain tag string.
	UpdateCheckURL string `json:"update_check_url"`

	MainServicePath string `json:"main_service_path"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.DBFile, "db-file", "data/cooler.db", "Path to profile database file")
	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to controller config file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.InstallService, "install-service", false, "Write the systemd unit file and exit")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.UpdateCheckURL == "" {
		cfg.UpdateCheckURL = "https://api.github.com/repos/coldloop/cooler-controller/releases/latest"
	}
	if cfg.DDNamespace == "" {
		cfg.DDNamespace = "cooler_controller."
	}
	if cfg.MainServicePath == "" {
		cfg.MainServicePath = "/etc/systemd/system/cooler-controller.service"
	}
}

func (cfg *Config) validate() {
	if cfg.EnableDatadog && cfg.DDAgentAddr == "" {
		panic("Datadog is enabled but dd_agent_addr is not set")
	}
	if cfg.DBFile == "" {
		panic("Database file path must not be empty")
	}
}
