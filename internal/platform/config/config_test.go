package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"FIRESTORE_PROJECT_ID": "madkurv-test",
		"FIREBASE_PROJECT_ID":  "madkurv-test",
		"STRIPE_SECRET_KEY":    "sk_test_123",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(baseEnv()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Pricing.Currency != "DKK" {
		t.Fatalf("currency = %q, want DKK", cfg.Pricing.Currency)
	}
	if !cfg.Features.EnableUpsells || !cfg.Features.EnableFeedback {
		t.Fatalf("features = %+v, want enabled by default", cfg.Features)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"FIRESTORE_PROJECT_ID": "madkurv-test",
	}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := verr.Fields()
	want := map[string]bool{"FIREBASE_PROJECT_ID": false, "STRIPE_SECRET_KEY": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("field %s missing from %v", field, fields)
		}
	}
}

func TestLoadEnvMapOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "PORT=9999\nPRICING_CURRENCY=eur\n# comment\nSTRIPE_SECRET_KEY=\"sk_from_file\"\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env := baseEnv()
	env["PORT"] = "7777"
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(envFile), WithEnvMap(env))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7777" {
		t.Fatalf("port = %q, want the explicit map to win", cfg.Server.Port)
	}
	if cfg.Pricing.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR from the file", cfg.Pricing.Currency)
	}
}

func TestLoadInvalidCurrency(t *testing.T) {
	env := baseEnv()
	env["PRICING_CURRENCY"] = "KRONER"
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(env))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	env := baseEnv()
	env["SERVER_READ_TIMEOUT"] = "soon"
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(env))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout = %v, want default", cfg.Server.ReadTimeout)
	}
}
