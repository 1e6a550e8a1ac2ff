package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/meta"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Airtable AirtableConfig    `yaml:"airtable"`
	Site     SiteConfig        `yaml:"site"`
	Output   OutputConfig      `yaml:"output"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Airtable.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AirtableConfig holds the upstream CMS credentials and table names.
// Credentials are validated here, before any network call is made.
type AirtableConfig struct {
	BaseID        string       `yaml:"base_id"`
	Token         string       `yaml:"token"`
	Tables        TablesConfig `yaml:"tables"`
	SortField     string       `yaml:"sort_field"`
	ModifiedField string       `yaml:"modified_field"`
}

// Validate validates the Airtable configuration.
func (c *AirtableConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseID, validation.Required),
		validation.Field(&c.Token, validation.Required),
	)
}

// TablesConfig names the five source tables.
type TablesConfig struct {
	Projects  string `yaml:"projects"`
	Journal   string `yaml:"journal"`
	Settings  string `yaml:"settings"`
	Festivals string `yaml:"festivals"`
	Clients   string `yaml:"clients"`
}

// SiteConfig holds the portfolio mode, public URLs, and cache tuning.
type SiteConfig struct {
	Mode      string        `yaml:"mode"`
	BaseURL   string        `yaml:"base_url"`
	OriginURL string        `yaml:"origin_url"`
	CDNPrefix string        `yaml:"cdn_prefix"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(meta.ModeDirecting, meta.ModePost)),
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// OutputConfig holds the artifact directory and sync-state database path.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	StatePath string `yaml:"state_path"`
	DataFile  string `yaml:"data_file"`
	ShareFile string `yaml:"share_file"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.StatePath, validation.Required),
		validation.Field(&c.DataFile, validation.Required),
		validation.Field(&c.ShareFile, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the sync trigger.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Airtable: AirtableConfig{
			Tables: TablesConfig{
				Projects:  "Projects",
				Journal:   "Journal",
				Settings:  "Settings",
				Festivals: "Festivals",
				Clients:   "Clients",
			},
			SortField:     "Release Date",
			ModifiedField: "Last Modified",
		},
		Site: SiteConfig{
			Mode:     meta.ModeDirecting,
			BaseURL:  "http://localhost:8080",
			CacheTTL: 5 * time.Minute,
		},
		Output: OutputConfig{
			Dir:       "./data",
			StatePath: "./folio.db",
			DataFile:  "portfolio-data.json",
			ShareFile: "share-meta.json",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
