// Package config loads runtime configuration from the environment with an
// optional .env file for local development. OS environment values take
// precedence over the file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultCurrency     = "DKK"
	defaultEnvironment  = "local"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Firestore FirestoreConfig
	Firebase  FirebaseConfig
	Stripe    StripeConfig
	Pricing   PricingConfig
	Features  FeatureFlags
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig holds the database connection parameters.
type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
	EmulatorHost    string
}

// FirebaseConfig holds the auth project settings.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// StripeConfig holds the PSP credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// PricingConfig carries platform-wide pricing parameters.
type PricingConfig struct {
	Currency string
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableUpsells  bool
	EnableFeedback bool
}

// ValidationError lists the missing or invalid fields found during Load.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the offending field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loader)

type loader struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env path used for local overrides.
func WithEnvFile(path string) Option {
	return func(l *loader) { l.envFile = path }
}

// WithEnvMap injects explicit values with the highest precedence. Tests use
// this instead of mutating the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(l *loader) { l.envMap = values }
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(l *loader) { l.useSystemEnv = false }
}

// Load assembles the configuration and validates the required fields.
func Load(opts ...Option) (Config, error) {
	l := loader{envFile: defaultEnvFile, useSystemEnv: true}
	for _, opt := range opts {
		opt(&l)
	}

	values, err := l.environment()
	if err != nil {
		return Config{}, err
	}
	get := func(key string) string { return strings.TrimSpace(values[key]) }

	cfg := Config{
		Server: ServerConfig{
			Port:         fallback(get("PORT"), defaultPort),
			Environment:  fallback(get("APP_ENV"), defaultEnvironment),
			ReadTimeout:  duration(get("SERVER_READ_TIMEOUT"), defaultReadTimeout),
			WriteTimeout: duration(get("SERVER_WRITE_TIMEOUT"), defaultWriteTimeout),
			IdleTimeout:  duration(get("SERVER_IDLE_TIMEOUT"), defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:       fallback(get("FIRESTORE_PROJECT_ID"), get("GOOGLE_CLOUD_PROJECT")),
			DatabaseID:      get("FIRESTORE_DATABASE_ID"),
			CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS"),
			EmulatorHost:    get("FIRESTORE_EMULATOR_HOST"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       fallback(get("FIREBASE_PROJECT_ID"), get("GOOGLE_CLOUD_PROJECT")),
			CredentialsFile: get("GOOGLE_APPLICATION_CREDENTIALS"),
		},
		Stripe: StripeConfig{
			SecretKey:     get("STRIPE_SECRET_KEY"),
			WebhookSecret: get("STRIPE_WEBHOOK_SECRET"),
		},
		Pricing: PricingConfig{
			Currency: fallback(strings.ToUpper(get("PRICING_CURRENCY")), defaultCurrency),
		},
		Features: FeatureFlags{
			EnableUpsells:  boolean(get("FEATURE_UPSELLS"), true),
			EnableFeedback: boolean(get("FEATURE_FEEDBACK"), true),
		},
	}

	var missing []string
	if cfg.Firestore.ProjectID == "" {
		missing = append(missing, "FIRESTORE_PROJECT_ID")
	}
	if cfg.Firebase.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if cfg.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if len(cfg.Pricing.Currency) != 3 {
		missing = append(missing, "PRICING_CURRENCY")
	}
	if len(missing) > 0 {
		return Config{}, &ValidationError{fields: missing}
	}
	return cfg, nil
}

// environment merges the sources in rising precedence: .env file, process
// environment, explicit map.
func (l loader) environment() (map[string]string, error) {
	values, err := loadDotEnv(l.envFile)
	if err != nil {
		return nil, err
	}
	if l.useSystemEnv {
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || key == "" {
				continue
			}
			values[key] = value
		}
	}
	for key, value := range l.envMap {
		values[key] = value
	}
	return values, nil
}

// loadDotEnv reads KEY=VALUE lines. A missing file is not an error.
func loadDotEnv(path string) (map[string]string, error) {
	values := make(map[string]string)
	if path == "" {
		return values, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key != "" {
			values[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func boolean(value string, def bool) bool {
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
