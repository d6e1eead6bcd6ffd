// Package config provides configuration handling for vcionboard
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for vcionboard
type Config struct {
	// AgentBaseURL is the base URL of the OID4VCI issuance agent
	AgentBaseURL string `yaml:"oid4vci_agent_base_url" json:"oid4vci_agent_base_url"`

	// CredentialIssuer is announced in credential offers; defaults to AgentBaseURL
	CredentialIssuer string `yaml:"credential_issuer,omitempty" json:"credential_issuer,omitempty"`

	// IssueCredentialType is the credential configuration id offered when the
	// submission does not name one
	IssueCredentialType string `yaml:"issue_credential_type" json:"issue_credential_type"`

	// CredentialName is a human-readable name of the offered credential
	CredentialName string `yaml:"credential_name,omitempty" json:"credential_name,omitempty"`

	// OfferPath is the agent endpoint creating offer URIs
	OfferPath string `yaml:"offer_path" json:"offer_path"`

	// FormFile is the form schema (.yaml, .json, .md or .vctm); empty means the fallback fields
	FormFile string `yaml:"form,omitempty" json:"form,omitempty"`

	// Listen is the HTTP listen address
	Listen string `yaml:"listen" json:"listen"`

	// Language selects labels from multi-locale schema sources
	Language string `yaml:"language" json:"language"`

	// LogLevel is the default log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SessionTTL is how long an unsubmitted information request is kept
	SessionTTL time.Duration `yaml:"session_ttl" json:"session_ttl"`

	// SessionCapacity bounds the number of sessions kept in memory
	SessionCapacity int `yaml:"session_capacity" json:"session_capacity"`

	// RequestTimeout bounds calls to the issuance agent
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		OfferPath:       "/webapp/credential-offers",
		Listen:          ":8080",
		Language:        "en-US",
		LogLevel:        "INFO",
		SessionTTL:      15 * time.Minute,
		SessionCapacity: 1024,
		RequestTimeout:  10 * time.Second,
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid. An unset agent URL is not an
// error here: offers fail with a configuration error when requested.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is required")
	}

	if c.AgentBaseURL != "" {
		u, err := url.Parse(c.AgentBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: invalid oid4vci_agent_base_url: %s", c.AgentBaseURL)
		}
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive")
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("config: session_capacity must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive")
	}

	// Check if form file exists
	if c.FormFile != "" {
		if _, err := os.Stat(c.FormFile); os.IsNotExist(err) {
			return fmt.Errorf("config: form file does not exist: %s", c.FormFile)
		}
	}

	return nil
}

// GetCredentialIssuer returns the credential issuer, falling back to the agent base URL
func (c *Config) GetCredentialIssuer() string {
	if c.CredentialIssuer != "" {
		return c.CredentialIssuer
	}
	return c.AgentBaseURL
}

// SaveToFile saves the configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: failed to write file %s: %w", path, err)
	}

	return nil
}

// Merge merges another config into this one, with the other taking precedence for non-empty values
func (c *Config) Merge(other *Config) {
	if other.AgentBaseURL != "" {
		c.AgentBaseURL = other.AgentBaseURL
	}
	if other.CredentialIssuer != "" {
		c.CredentialIssuer = other.CredentialIssuer
	}
	if other.IssueCredentialType != "" {
		c.IssueCredentialType = other.IssueCredentialType
	}
	if other.CredentialName != "" {
		c.CredentialName = other.CredentialName
	}
	if other.OfferPath != "" {
		c.OfferPath = other.OfferPath
	}
	if other.FormFile != "" {
		c.FormFile = other.FormFile
	}
	if other.Listen != "" {
		c.Listen = other.Listen
	}
	if other.Language != "" {
		c.Language = other.Language
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.SessionTTL != 0 {
		c.SessionTTL = other.SessionTTL
	}
	if other.SessionCapacity != 0 {
		c.SessionCapacity = other.SessionCapacity
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
}
