package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const (
	DefaultServerURL  = "https://tcc-back-2025.vercel.app"
	DefaultCatalogURL = "https://www.googleapis.com/books/v1"
	DefaultTheme      = "palavraria"
	DefaultLogLevel   = "info"

	configFileName = "config.json"
	configDirName  = "palavraria"
)

// Environment variables that override the config file
const (
	EnvConfigPath = "PALAVRARIA_CONFIG"
	EnvServerURL  = "PALAVRARIA_SERVER_URL"
	EnvCatalogURL = "PALAVRARIA_CATALOG_URL"
	EnvLogLevel   = "PALAVRARIA_LOG_LEVEL"
)

// Config holds the application configuration
type Config struct {
	ServerURL   string     `json:"server_url"`
	CatalogURL  string     `json:"catalog_url"`
	Token       string     `json:"token,omitempty"`
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email,omitempty"`
	MemberSince *time.Time `json:"member_since,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	LogLevel    string     `json:"log_level,omitempty"`

	// Path to config file (not persisted)
	path string `json:"-"`

	// Environment overrides, never written back
	serverEnv   *override
	catalogEnv  *override
	logLevelEnv *override
}

// override remembers the file value an environment variable replaced
type override struct {
	file string
	env  string
}

// persisted returns the value Save should write for a field currently
// holding current. A value still equal to the override goes back to the
// file value.
func (o *override) persisted(current string) string {
	if o != nil && current == o.env {
		return o.file
	}
	return current
}

// Load loads configuration from the config file and applies environment
// overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from an explicit path
func LoadFile(configPath string) (*Config, error) {
	cfg := &Config{
		ServerURL:  DefaultServerURL,
		CatalogURL: DefaultCatalogURL,
		Theme:      DefaultTheme,
		LogLevel:   DefaultLogLevel,
		path:       configPath,
	}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, errors.Wrapf(err, "read config %s", configPath)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", configPath)
		}
	}

	cfg.applyEnv()
	cfg.path = configPath
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.serverEnv = applyOverride(&c.ServerURL, EnvServerURL)
	c.catalogEnv = applyOverride(&c.CatalogURL, EnvCatalogURL)
	c.logLevelEnv = applyOverride(&c.LogLevel, EnvLogLevel)
}

func applyOverride(field *string, name string) *override {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	o := &override{file: *field, env: v}
	*field = v
	return o
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir(), 0700); err != nil {
		return errors.WithStack(err)
	}

	out := *c
	out.ServerURL = c.serverEnv.persisted(c.ServerURL)
	out.CatalogURL = c.catalogEnv.persisted(c.CatalogURL)
	out.LogLevel = c.logLevelEnv.persisted(c.LogLevel)

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(os.WriteFile(c.path, data, 0600))
}

// Path returns the config file location
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config and log files
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// SetSession stores the logged-in user and saves
func (c *Config) SetSession(name, email, token string) error {
	c.Name = name
	c.Email = email
	c.Token = token
	if c.MemberSince == nil {
		now := time.Now()
		c.MemberSince = &now
	}
	return c.Save()
}

// ClearSession removes the session and saves
func (c *Config) ClearSession() error {
	c.Token = ""
	c.Name = ""
	c.Email = ""
	return c.Save()
}

// SetTheme updates the theme and saves
func (c *Config) SetTheme(name string) error {
	c.Theme = name
	return c.Save()
}

// IsAuthenticated returns true if a session is stored and its token, when
// it is a JWT, has not expired
func (c *Config) IsAuthenticated() bool {
	if c.Email == "" && c.Token == "" {
		return false
	}
	if exp, ok := c.TokenExpiry(); ok && time.Now().After(exp) {
		return false
	}
	return true
}

// TokenExpiry reads the exp claim of the stored token without verifying the
// signature. ok is false for opaque tokens or tokens without exp.
func (c *Config) TokenExpiry() (exp time.Time, ok bool) {
	if c.Token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// DisplayName is the handle shown on the profile
func (c *Config) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Email != "":
		return c.Email
	default:
		return "usuario"
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.WithStack(err)
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}
