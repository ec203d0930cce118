package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainconfig "taxonomy-console/domain/config"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	basePath    string
	environment Environment
	lookupEnv   func(string) (string, bool)
	fileLoaders []FileLoader
}

// FileLoader decodes one configuration file format
type FileLoader interface {
	Load(reader io.Reader, target interface{}) error
	Extension() string
}

// NewLoader creates a loader reading files from basePath
func NewLoader(basePath string, env Environment) *Loader {
	if basePath == "" {
		basePath = "config"
	}
	return &Loader{
		basePath:    basePath,
		environment: env,
		lookupEnv:   os.LookupEnv,
		fileLoaders: []FileLoader{&YAMLLoader{}, &JSONLoader{}},
	}
}

// BasePath returns the directory configuration files are read from
func (l *Loader) BasePath() string {
	return l.basePath
}

// Load builds the configuration. Later sources override earlier ones:
//  1. defaults
//  2. base.yaml
//  3. <environment>.yaml
//  4. local.yaml (development only)
//  5. environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := l.defaultConfig()
	sources := []string{"defaults"}

	for _, name := range l.fileNames() {
		path, err := l.loadFile(name, cfg)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load %s config: %w", name, err)
		}
		sources = append(sources, path)
	}

	if err := l.applyEnvironment(cfg); err != nil {
		return nil, err
	}
	sources = append(sources, "environment")
	cfg.LoadedFrom = sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) fileNames() []string {
	names := []string{"base", strings.ToLower(string(l.environment))}
	if l.environment == Development {
		names = append(names, "local")
	}
	return names
}

// loadFile decodes the first <name>.<ext> found into cfg
func (l *Loader) loadFile(name string, cfg *Config) (string, error) {
	for _, loader := range l.fileLoaders {
		path := filepath.Join(l.basePath, fmt.Sprintf("%s.%s", name, loader.Extension()))
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}

		err = loader.Load(file, cfg)
		file.Close()
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return path, nil
	}
	return "", os.ErrNotExist
}

// applyEnvironment overlays environment variables on cfg
func (l *Loader) applyEnvironment(cfg *Config) error {
	var errs []string
	str := func(key string, dst *string) {
		if v, ok := l.lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := l.lookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := l.lookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = b
		}
	}

	str("LOG_LEVEL", &cfg.LogLevel)
	str("SERVER_HOST", &cfg.Server.Host)
	if v, ok := l.lookupEnv("SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SERVER_PORT: %v", err))
		} else {
			cfg.Server.Port = port
		}
	}

	str("TAXONOMY_BASE_URL", &cfg.Taxonomy.BaseURL)
	str("TAXONOMY_TENANT_ID", &cfg.Taxonomy.TenantID)
	str("TAXONOMY_AUTH_TOKEN", &cfg.Taxonomy.AuthToken)
	str("TAXONOMY_COOKIE", &cfg.Taxonomy.Cookie)
	duration("TAXONOMY_TIMEOUT", &cfg.Taxonomy.Timeout)

	duration("WIZARD_SESSION_TTL", &cfg.Wizard.SessionTTL)
	duration("WIZARD_READ_CACHE_TTL", &cfg.Wizard.ReadCacheTTL)
	str("WIZARD_DEFAULT_CHANNEL", &cfg.Wizard.DefaultChannelIdentifier)

	boolean("EVENTS_ENABLED", &cfg.Events.Enabled)
	str("EVENT_BUS_NAME", &cfg.Events.EventBusName)
	str("AWS_REGION", &cfg.Events.Region)

	boolean("ENABLE_METRICS", &cfg.Observability.EnableMetrics)
	boolean("ENABLE_TRACING", &cfg.Observability.EnableTracing)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Observability.OTLPEndpoint)
	str("OTEL_SERVICE_NAME", &cfg.Observability.ServiceName)

	if v, ok := l.lookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment variables: %s", strings.Join(errs, "; "))
	}
	return nil
}

// defaultConfig returns a configuration that runs locally without files
func (l *Loader) defaultConfig() *Config {
	domain := domainconfig.DefaultDomainConfig()
	return &Config{
		Environment: l.environment,
		LogLevel:    "info",
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Taxonomy: Taxonomy{
			BaseURL: "http://localhost:9000",
			Timeout: 30 * time.Second,
			Breaker: Breaker{
				MaxRequests:      5,
				Interval:         30 * time.Second,
				Timeout:          60 * time.Second,
				FailureThreshold: 0.8,
				MinRequests:      5,
			},
		},
		Wizard: Wizard{
			SessionTTL:               domain.SessionTTL,
			SweepInterval:            time.Minute,
			DefaultChannelIdentifier: domain.DefaultChannelIdentifier,
			DefaultCategories:        domain.DefaultCategories,
			MaxCategories:            domain.MaxCategoriesPerDraft,
			MaxTermsPerCategory:      domain.MaxTermsPerCategory,
			MaxAssociationsPerTerm:   domain.MaxAssociationsPerTerm,
			ReadCacheTTL:             30 * time.Second,
		},
		Events: Events{
			EventBusName: "taxonomy-console-events",
			Region:       "us-east-1",
		},
		Observability: Observability{
			EnableMetrics:    true,
			MetricsNamespace: "taxonomy_console",
			ServiceName:      "taxonomy-console",
			SampleRate:       1.0,
		},
		CORS: CORS{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
	}
}

// YAMLLoader loads configuration from YAML files
type YAMLLoader struct{}

func (y *YAMLLoader) Load(reader io.Reader, target interface{}) error {
	return yaml.NewDecoder(reader).Decode(target)
}

func (y *YAMLLoader) Extension() string {
	return "yaml"
}

// JSONLoader loads configuration from JSON files
type JSONLoader struct{}

func (j *JSONLoader) Load(reader io.Reader, target interface{}) error {
	return json.NewDecoder(reader).Decode(target)
}

func (j *JSONLoader) Extension() string {
	return "json"
}

// EnvironmentFromEnv reads ENVIRONMENT, defaulting to development
func EnvironmentFromEnv() Environment {
	switch env := Environment(strings.ToLower(os.Getenv("ENVIRONMENT"))); env {
	case Staging, Production:
		return env
	default:
		return Development
	}
}

// LoadConfig loads configuration from CONFIG_DIR (default "config") for the
// environment named by ENVIRONMENT
func LoadConfig() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	return NewLoader(dir, EnvironmentFromEnv()).Load()
}
