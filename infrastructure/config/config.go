// Package config loads the service configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	domainconfig "taxonomy-console/domain/config"
)

// Environment is the deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	Environment   Environment   `yaml:"environment" json:"environment"`
	LogLevel      string        `yaml:"log_level" json:"log_level"`
	Server        Server        `yaml:"server" json:"server"`
	Taxonomy      Taxonomy      `yaml:"taxonomy" json:"taxonomy"`
	Wizard        Wizard        `yaml:"wizard" json:"wizard"`
	Events        Events        `yaml:"events" json:"events"`
	Observability Observability `yaml:"observability" json:"observability"`
	CORS          CORS          `yaml:"cors" json:"cors"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-" json:"-"`
}

// Server configures the HTTP listener
type Server struct {
	Host            string        `yaml:"host" json:"host"`
	Port            int           `yaml:"port" json:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxRequestSize  int64         `yaml:"max_request_size" json:"max_request_size"`
}

// Taxonomy configures the external taxonomy service. The credentials are
// static values supplied by the deployment.
type Taxonomy struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	TenantID  string        `yaml:"tenant_id" json:"tenant_id"`
	AuthToken string        `yaml:"auth_token" json:"-"`
	Cookie    string        `yaml:"cookie" json:"-"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	Breaker   Breaker       `yaml:"breaker" json:"breaker"`
}

// Breaker configures the circuit breaker around the taxonomy service
type Breaker struct {
	MaxRequests      uint32        `yaml:"max_requests" json:"max_requests"`
	Interval         time.Duration `yaml:"interval" json:"interval"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold" json:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests" json:"min_requests"`
}

// Wizard configures sessions and the draft limits
type Wizard struct {
	SessionTTL               time.Duration                   `yaml:"session_ttl" json:"session_ttl"`
	SweepInterval            time.Duration                   `yaml:"sweep_interval" json:"sweep_interval"`
	DefaultChannelIdentifier string                          `yaml:"default_channel_identifier" json:"default_channel_identifier"`
	DefaultCategories        []domainconfig.CategoryTemplate `yaml:"default_categories" json:"default_categories"`
	MaxCategories            int                             `yaml:"max_categories" json:"max_categories"`
	MaxTermsPerCategory      int                             `yaml:"max_terms_per_category" json:"max_terms_per_category"`
	MaxAssociationsPerTerm   int                             `yaml:"max_associations_per_term" json:"max_associations_per_term"`
	ReadCacheTTL             time.Duration                   `yaml:"read_cache_ttl" json:"read_cache_ttl"`
}

// Events configures domain event publishing
type Events struct {
	Enabled      bool   `yaml:"enabled" json:"enabled"`
	EventBusName string `yaml:"event_bus_name" json:"event_bus_name"`
	Region       string `yaml:"region" json:"region"`
}

// Observability configures metrics and tracing
type Observability struct {
	EnableMetrics    bool    `yaml:"enable_metrics" json:"enable_metrics"`
	MetricsNamespace string  `yaml:"metrics_namespace" json:"metrics_namespace"`
	EnableTracing    bool    `yaml:"enable_tracing" json:"enable_tracing"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	ServiceName      string  `yaml:"service_name" json:"service_name"`
	SampleRate       float64 `yaml:"sample_rate" json:"sample_rate"`
}

// CORS configures cross-origin access for the browser console
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	MaxAge         int      `yaml:"max_age" json:"max_age"`
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// DomainConfig derives the wizard's domain settings
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	cfg := domainconfig.DefaultDomainConfig()
	if c.Wizard.DefaultChannelIdentifier != "" {
		cfg.DefaultChannelIdentifier = c.Wizard.DefaultChannelIdentifier
	}
	if len(c.Wizard.DefaultCategories) > 0 {
		cfg.DefaultCategories = append([]domainconfig.CategoryTemplate(nil), c.Wizard.DefaultCategories...)
	}
	if c.Wizard.MaxCategories > 0 {
		cfg.MaxCategoriesPerDraft = c.Wizard.MaxCategories
	}
	if c.Wizard.MaxTermsPerCategory > 0 {
		cfg.MaxTermsPerCategory = c.Wizard.MaxTermsPerCategory
	}
	if c.Wizard.MaxAssociationsPerTerm > 0 {
		cfg.MaxAssociationsPerTerm = c.Wizard.MaxAssociationsPerTerm
	}
	if c.Wizard.SessionTTL > 0 {
		cfg.SessionTTL = c.Wizard.SessionTTL
	}
	return cfg
}

// Validate checks the assembled configuration
func (c *Config) Validate() error {
	var problems []string

	switch c.Environment {
	case Development, Staging, Production:
	default:
		problems = append(problems, fmt.Sprintf("unknown environment %q", c.Environment))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if u, err := url.ParseRequestURI(c.Taxonomy.BaseURL); err != nil || u.Host == "" {
		problems = append(problems, fmt.Sprintf("taxonomy.base_url %q is not an absolute URL", c.Taxonomy.BaseURL))
	}
	if c.Taxonomy.Timeout <= 0 {
		problems = append(problems, "taxonomy.timeout must be positive")
	}
	if c.Taxonomy.Breaker.FailureThreshold <= 0 || c.Taxonomy.Breaker.FailureThreshold > 1 {
		problems = append(problems, "taxonomy.breaker.failure_threshold must be in (0, 1]")
	}
	if c.IsProduction() && c.Taxonomy.AuthToken == "" {
		problems = append(problems, "taxonomy.auth_token is required in production")
	}
	if c.Events.Enabled && c.Events.EventBusName == "" {
		problems = append(problems, "events.event_bus_name is required when events are enabled")
	}
	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		problems = append(problems, "observability.sample_rate must be in [0, 1]")
	}
	if err := c.DomainConfig().Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
