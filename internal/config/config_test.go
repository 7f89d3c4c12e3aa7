package config

import (
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{DBFile: "data/cooler.db"}
	cfg.applyDefaults()

	if cfg.UpdateCheckURL == "" {
		t.Fatal("expected default update check URL to be set")
	}
	if cfg.DDNamespace != "cooler_controller." {
		t.Fatalf("unexpected default namespace: %s", cfg.DDNamespace)
	}
	if cfg.MainServicePath == "" {
		t.Fatal("expected default service path to be set")
	}
}

func TestValidate_DatadogAddrRequired(t *testing.T) {
	cfg := Config{
		DBFile:        "data/cooler.db",
		EnableDatadog: true,
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic due to missing dd_agent_addr, but got none")
		}
	}()

	cfg.validate()
}

func TestValidate_DBFileRequired(t *testing.T) {
	cfg := Config{}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic due to empty db file path, but got none")
		}
	}()

	cfg.validate()
}
