package config

import "time"

// CategoryTemplate is a predefined category offered by the quick-add panel
type CategoryTemplate struct {
	Name        string `yaml:"name" json:"name"`
	Code        string `yaml:"code" json:"code"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Draft defaults
	DefaultChannelIdentifier string
	DefaultCategories        []CategoryTemplate

	// Draft constraints
	MaxCategoriesPerDraft  int
	MaxTermsPerCategory    int
	MaxAssociationsPerTerm int
	MaxNameLength          int
	MaxCodeLength          int
	MaxDescriptionLength   int

	// Session constraints
	SessionTTL time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultChannelIdentifier: "in.ekstep",
		DefaultCategories: []CategoryTemplate{
			{Name: "Board", Code: "board"},
			{Name: "Medium", Code: "medium"},
			{Name: "Subject", Code: "subject"},
			{Name: "Course Type", Code: "courseType"},
		},

		MaxCategoriesPerDraft:  50,
		MaxTermsPerCategory:    500,
		MaxAssociationsPerTerm: 1000,
		MaxNameLength:          200,
		MaxCodeLength:          100,
		MaxDescriptionLength:   2000,

		SessionTTL: 2 * time.Hour,
	}
}

// DefaultCategory looks up a quick-add template by code
func (c *DomainConfig) DefaultCategory(code string) (CategoryTemplate, bool) {
	for _, tpl := range c.DefaultCategories {
		if tpl.Code == code {
			return tpl, true
		}
	}
	return CategoryTemplate{}, false
}

// Validate ensures the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.DefaultChannelIdentifier == "" {
		return ErrInvalidConfig("DefaultChannelIdentifier must not be empty")
	}
	if c.MaxCategoriesPerDraft <= 0 {
		return ErrInvalidConfig("MaxCategoriesPerDraft must be positive")
	}
	if c.MaxTermsPerCategory <= 0 {
		return ErrInvalidConfig("MaxTermsPerCategory must be positive")
	}
	if c.MaxAssociationsPerTerm <= 0 {
		return ErrInvalidConfig("MaxAssociationsPerTerm must be positive")
	}
	if c.MaxNameLength <= 0 || c.MaxCodeLength <= 0 {
		return ErrInvalidConfig("name and code length limits must be positive")
	}
	seen := make(map[string]bool, len(c.DefaultCategories))
	for _, tpl := range c.DefaultCategories {
		if tpl.Name == "" || tpl.Code == "" {
			return ErrInvalidConfig("default categories need a name and a code")
		}
		if seen[tpl.Code] {
			return ErrInvalidConfig("duplicate default category code " + tpl.Code)
		}
		seen[tpl.Code] = true
	}
	return nil
}

// ErrInvalidConfig represents an invalid configuration error
type ErrInvalidConfig string

func (e ErrInvalidConfig) Error() string {
	return "invalid domain config: " + string(e)
}
