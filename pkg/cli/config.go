package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir 配置目录名，位于用户主目录下
	DefaultBaseDir = ".hearsay"
	// DefaultConfigFile 配置文件名
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk CLI configuration: a set of named contexts plus the
// name of the active one, kubectl style. Every mutating method persists
// immediately.
type Config struct {
	// AppName names the owning application, not persisted
	AppName string `yaml:"-"`

	// CurrentContext selects which context is active
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts indexes contexts by name
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// KeyCredentials contains bearer-key credentials (qwen, sensevoice)
type KeyCredentials struct {
	// APIKey is the API key (Bearer token)
	APIKey string `yaml:"api_key"`
}

// AppCredentials contains app-scoped credentials (doubao)
type AppCredentials struct {
	// AppID identifies the application on the provider console
	AppID string `yaml:"app_id"`

	// AccessKey is the access token for the speech APIs
	AccessKey string `yaml:"access_key"`
}

// Context bundles one account's provider credentials with its default
// recognition routing.
type Context struct {
	// Name duplicates the map key, for display
	Name string `yaml:"name"`

	// Qwen contains DashScope credentials - used by the qwen provider
	Qwen *KeyCredentials `yaml:"qwen,omitempty"`

	// Doubao contains Volcengine speech credentials - used by the doubao provider
	Doubao *AppCredentials `yaml:"doubao,omitempty"`

	// SenseVoice contains SiliconFlow credentials - used by the sensevoice provider
	SenseVoice *KeyCredentials `yaml:"sensevoice,omitempty"`

	// Provider is the default primary provider (qwen, doubao, sensevoice)
	Provider string `yaml:"provider,omitempty"`

	// Fallback is the default fallback provider (optional, empty disables fallback)
	Fallback string `yaml:"fallback,omitempty"`

	// Strategy is the default orchestration strategy (sequential, parallel, race)
	Strategy string `yaml:"strategy,omitempty"`

	// Timeout is the per-attempt timeout in seconds (optional)
	Timeout int `yaml:"timeout,omitempty"`

	// MaxRetries is the maximum number of retries on the primary (optional)
	MaxRetries int `yaml:"max_retries,omitempty"`

	// Extra stores application-specific settings
	Extra map[string]string `yaml:"extra,omitempty"`
}

// LoadConfig loads or creates the app's configuration at the default path.
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// load reads the config file into c, creating it when absent.
func (c *Config) load() error {
	data, err := os.ReadFile(c.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return c.Save()
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// LoadConfigWithPath loads the configuration, creating the file (and its
// directory) on first use. An empty customPath means the default location.
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		configPath = paths.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{AppName: appName, configPath: configPath}
	if err := cfg.load(); err != nil {
		return nil, err
	}

	// 空文件或旧版本文件里可能没有 contexts 段
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.AppName = appName
	return cfg, nil
}

// Save writes the configuration to disk. Credentials live here, so the file
// is not group or world readable.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path reports where the configuration is stored on disk.
func (c *Config) Path() string { return c.configPath }

// Dir reports the directory holding the configuration file.
func (c *Config) Dir() string { return filepath.Dir(c.configPath) }

// GetContext returns the named context.
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the active context.
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no context selected")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the named context, or the active one when name is
// empty.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// AddContext registers ctx under name, overwriting any existing context of
// that name.
func (c *Config) AddContext(name string, ctx *Context) error {
	if name == "" {
		return fmt.Errorf("context name must not be empty")
	}
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes the named context. Deleting the active context
// clears the current-context selection.
func (c *Config) DeleteContext(name string) error {
	if _, err := c.GetContext(name); err != nil {
		return err
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext makes the named context the active one.
func (c *Config) UseContext(name string) error {
	if _, err := c.GetContext(name); err != nil {
		return err
	}
	c.CurrentContext = name
	return c.Save()
}

// ListContexts returns every context name, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetExtra reads a free-form setting, empty when unset.
func (ctx *Context) GetExtra(key string) string {
	return ctx.Extra[key]
}

// SetExtra stores a free-form setting on the context.
func (ctx *Context) SetExtra(key, value string) {
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]string)
	}
	ctx.Extra[key] = value
}

// MaskAPIKey hides the middle of a key for display. Keys of eight characters
// or fewer are fully masked.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	masked := []byte(key)
	for i := 4; i < len(masked)-4; i++ {
		masked[i] = '*'
	}
	return string(masked)
}
