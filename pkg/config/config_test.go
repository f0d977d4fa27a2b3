package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNKeepsExplicitValue(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://user:pass@db:5432/akwa"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://user:pass@db:5432/akwa" {
		t.Fatalf("dsn mutated: %s", cfg.DSN)
	}
}

func TestEnsureDSNAssemblesLegacyParts(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5433,
		LegacyUser:     "akwa",
		LegacyPassword: "s3cret",
		LegacyName:     "inventory",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"postgres://", "akwa:s3cret@db.internal:5433", "/inventory", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Fatalf("dsn %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error when legacy parts incomplete")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should name missing vars: %v", err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatal("expected IsDev for DEV")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatal("expected IsProd for prod")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging must not be prod")
	}
}
