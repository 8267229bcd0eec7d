// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("NATS_URL", "nats://broker:4222")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.NatsURL != "nats://broker:4222" {
		t.Errorf("expected NATS URL from env, got %s", cfg.NatsURL)
	}
	if cfg.DriverName() != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.DriverName())
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("STRICT_CANDIDATES", "true")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-strict-candidates=false"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StrictCandidates {
		t.Error("explicit -strict-candidates=false should beat STRICT_CANDIDATES env")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.VoteSubject != "votos.entrada" {
		t.Errorf("expected default subject votos.entrada, got %s", cfg.VoteSubject)
	}
	if cfg.StreamName != "VOTOS" {
		t.Errorf("expected default stream VOTOS, got %s", cfg.StreamName)
	}
	if !cfg.StrictCandidates || !cfg.RequireVoter {
		t.Error("strict candidates and voter correlation should default on")
	}
	if cfg.LegacyWire {
		t.Error("legacy wire should default off")
	}
	if cfg.StorageTimeout != 5*time.Second {
		t.Errorf("expected default storage timeout 5s, got %s", cfg.StorageTimeout)
	}
}

func TestParseFlags_MissingDatabaseURL(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{})
	if err == nil {
		t.Fatal("expected error when database URL is missing")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "file:test.db", "-t", "oracle"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestParseFlags_StorageTimeout(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("STORAGE_TIMEOUT_MS", "250")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.StorageTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms storage timeout, got %s", cfg.StorageTimeout)
	}
}

func TestParseFlags_BoolEnvFallback(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("LEGACY_WIRE", "true")
	os.Setenv("REQUIRE_VOTER", "false")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.LegacyWire {
		t.Error("LEGACY_WIRE env should enable legacy wire")
	}
	if cfg.RequireVoter {
		t.Error("REQUIRE_VOTER env should disable voter correlation")
	}
}
