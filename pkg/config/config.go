package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// OAuth protocol versions accepted by QuickBooks Online.
const (
	OAuthVersion1 = "1.0a"
	OAuthVersion2 = "2.0"
)

// Config holds the credentials and settings for one QuickBooks company
// connection. One Config (and one client built from it) is scoped to a
// single realm; do not share it across companies.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	TokenSecret    string
	RealmID        string
	RefreshToken   string
	UseSandbox     bool
	Debug          bool
	MinorVersion   string
	OAuthVersion   string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		ConsumerKey:    os.Getenv("QB_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("QB_CONSUMER_SECRET"),
		AccessToken:    os.Getenv("QB_ACCESS_TOKEN"),
		TokenSecret:    os.Getenv("QB_TOKEN_SECRET"),
		RealmID:        os.Getenv("QB_REALM_ID"),
		RefreshToken:   os.Getenv("QB_REFRESH_TOKEN"),
		UseSandbox:     os.Getenv("QB_SANDBOX") == "true",
		Debug:          os.Getenv("QB_DEBUG") == "true",
		MinorVersion:   os.Getenv("QB_MINOR_VERSION"),
		OAuthVersion:   os.Getenv("QB_OAUTH_VERSION"),
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills in the minor version and OAuth version when unset.
func (c *Config) ApplyDefaults() {
	if c.MinorVersion == "" {
		c.MinorVersion = "4"
	}
	if c.OAuthVersion == "" {
		c.OAuthVersion = OAuthVersion1
	}
}

func (c *Config) Validate() error {
	if c.ConsumerKey == "" {
		return fmt.Errorf("QB_CONSUMER_KEY is required")
	}
	if c.ConsumerSecret == "" {
		return fmt.Errorf("QB_CONSUMER_SECRET is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("QB_ACCESS_TOKEN is required")
	}
	if c.RealmID == "" {
		return fmt.Errorf("QB_REALM_ID is required")
	}
	if c.OAuthVersion != OAuthVersion1 && c.OAuthVersion != OAuthVersion2 {
		return fmt.Errorf("QB_OAUTH_VERSION must be %q or %q, got %q", OAuthVersion1, OAuthVersion2, c.OAuthVersion)
	}
	// Signing under OAuth 1.0a cannot work without the token secret.
	if c.OAuthVersion == OAuthVersion1 && c.TokenSecret == "" {
		return fmt.Errorf("QB_TOKEN_SECRET is required when QB_OAUTH_VERSION is %q", OAuthVersion1)
	}
	// RefreshToken is optional, only needed for OAuth2 token refresh
	return nil
}
