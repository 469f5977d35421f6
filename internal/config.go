package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zettel/internal/apperr"
	"github.com/starford/zettel/internal/extract"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Normalize modes.
const (
	NormalizeCopy = "copy"
	NormalizeMove = "move"
)

// Commands.
const (
	CommandIndex     = "index"
	CommandNormalize = "normalize"
	CommandServe     = "serve"
	CommandMCP       = "mcp"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Notes     NotesConfig       `yaml:"notes"`
	Report    ReportConfig      `yaml:"report"`
	Extract   ExtractConfig     `yaml:"extract"`
	Normalize NormalizeConfig   `yaml:"normalize"`
	Serve     ServeConfig       `yaml:"serve"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates every section that does not depend on the command.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Notes, &c.Extract, &c.Normalize, &c.Serve, &c.Auth} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
		}
	}
	return nil
}

// ValidateFor validates the configuration for command. The report template
// is required by index, serve and mcp; the output path only by index.
func (c *Config) ValidateFor(command string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var err error
	switch command {
	case CommandIndex:
		err = c.Report.Validate()
	case CommandServe, CommandMCP:
		err = validation.ValidateStruct(&c.Report,
			validation.Field(&c.Report.Template, validation.Required),
		)
	case CommandNormalize:
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}
	return nil
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

// NotesConfig describes the note tree to scan.
type NotesConfig struct {
	Path       string   `yaml:"path"`
	Ignore     []string `yaml:"ignore"`
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extensions, validation.Each(validation.Required)),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// ReportConfig holds the template and output paths.
type ReportConfig struct {
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Template, validation.Required),
		validation.Field(&c.Output, validation.Required),
	)
}

// ExtractConfig holds the run options handed to the extractors.
type ExtractConfig struct {
	Wiki       bool     `yaml:"wiki"`
	Tasks      string   `yaml:"tasks"`
	Properties []string `yaml:"properties"`
}

// Validate validates the extraction options.
func (c *ExtractConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Tasks, validation.Required,
			validation.In(extract.TasksNone, extract.TasksByFile, extract.TasksByPriority)),
	); err != nil {
		return err
	}
	if _, err := extract.CompilePatterns(c.Properties); err != nil {
		return err
	}
	return nil
}

// Options converts the section into extractor run options.
func (c *ExtractConfig) Options() extract.Options {
	return extract.Options{Wiki: c.Wiki, Tasks: c.Tasks, PropertyKeys: c.Properties}
}

// NormalizeConfig holds frontmatter normalization options.
type NormalizeConfig struct {
	Mode string `yaml:"mode"`
}

// Validate validates the normalize configuration.
func (c *NormalizeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(NormalizeCopy, NormalizeMove)),
	)
}

// ServeConfig holds options for the long-running surfaces.
type ServeConfig struct {
	// CacheTTL keeps scans and renders between requests. Zero disables it.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
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
		Notes: NotesConfig{
			Path:       ".",
			Extensions: []string{".md"},
			Workers:    4,
		},
		Extract: ExtractConfig{
			Tasks: extract.TasksByPriority,
		},
		Normalize: NormalizeConfig{
			Mode: NormalizeCopy,
		},
		Serve: ServeConfig{
			CacheTTL: 5 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
