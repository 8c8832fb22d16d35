package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"poextract/internal/domain"
	"poextract/internal/xlsxexport"
)

// Config holds all application configuration. It is read once at startup and
// treated as read-only afterwards.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Inference InferenceConfig
	OCI       OCIConfig
	OpenAI    ProviderConfig
	Claude    ProviderConfig
	Pipeline  PipelineConfig
	Upload    UploadConfig
	Export    ExportConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InferenceConfig selects the inference provider and its fixed generation parameters.
type InferenceConfig struct {
	Provider       string        `mapstructure:"provider"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Temperature    float64       `mapstructure:"temperature"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

// OCIConfig is the OCI Generative AI credential bundle and target model.
type OCIConfig struct {
	User          string `mapstructure:"user"`
	Fingerprint   string `mapstructure:"fingerprint"`
	Tenancy       string `mapstructure:"tenancy"`
	Region        string `mapstructure:"region"`
	PrivateKey    string `mapstructure:"private_key"`
	CompartmentID string `mapstructure:"compartment_id"`
	ModelID       string `mapstructure:"model_id"`
	Endpoint      string `mapstructure:"endpoint"`
}

// ProviderConfig holds settings for an API-key based provider.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// PipelineConfig controls how the three documents are extracted.
type PipelineConfig struct {
	ConcurrentExtraction bool `mapstructure:"concurrent_extraction"`
}

// UploadConfig limits accepted uploads.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// ExportConfig names the generated workbook.
type ExportConfig struct {
	FileName  string `mapstructure:"file_name"`
	SheetName string `mapstructure:"sheet_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

const (
	ProviderOCI    = "oci"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// configSearchPaths are tried in order when no explicit file is given.
var configSearchPaths = []string{".", "./config", "/etc/poextract"}

// Load finds secrets.toml on the search path and reads it.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("secrets")
	v.SetConfigType("toml")
	for _, p := range configSearchPaths {
		v.AddConfigPath(p)
	}
	return load(v)
}

// LoadFile reads configuration from an explicit secrets file.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	// One run makes up to three model calls of up to read_timeout each.
	v.SetDefault("server.write_timeout", "15m")
	v.SetDefault("server.environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("inference.provider", ProviderOCI)
	v.SetDefault("inference.max_tokens", 4000)
	v.SetDefault("inference.temperature", 0)
	v.SetDefault("inference.connect_timeout", "10s")
	v.SetDefault("inference.read_timeout", "240s")

	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("claude.model", "claude-sonnet-4-20250514")

	v.SetDefault("pipeline.concurrent_extraction", false)
	v.SetDefault("upload.max_file_size_mb", 25)
	v.SetDefault("export.file_name", "PO_GRN_MRN_Extracted.xlsx")
	v.SetDefault("export.sheet_name", "Sheet1")
	v.SetDefault("cors.allowed_origins", []string{})

	return v
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrap(domain.ErrConfigMissing, "secrets file not found")
		}
		return nil, eris.Wrap(err, "config: read secrets file")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "config: decode")
	}
	cfg.CORS.AllowedOrigins = splitOrigins(v.GetStringSlice("cors.allowed_origins"))
	cfg.Inference.Provider = strings.ToLower(strings.TrimSpace(cfg.Inference.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitOrigins accepts either a TOML array or a single comma-separated string.
func splitOrigins(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, o := range strings.Split(entry, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// Validate checks that every setting the selected provider needs is present.
func (c *Config) Validate() error {
	var missing []string
	switch c.Inference.Provider {
	case ProviderOCI:
		required := []struct{ key, value string }{
			{"oci.user", c.OCI.User},
			{"oci.fingerprint", c.OCI.Fingerprint},
			{"oci.tenancy", c.OCI.Tenancy},
			{"oci.region", c.OCI.Region},
			{"oci.private_key", c.OCI.PrivateKey},
			{"oci.compartment_id", c.OCI.CompartmentID},
			{"oci.model_id", c.OCI.ModelID},
			{"oci.endpoint", c.OCI.Endpoint},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				missing = append(missing, r.key)
			}
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			missing = append(missing, "openai.api_key")
		}
	case ProviderClaude:
		if c.Claude.APIKey == "" {
			missing = append(missing, "claude.api_key")
		}
	default:
		return eris.Wrapf(domain.ErrUnknownProvider, "inference.provider %q", c.Inference.Provider)
	}

	if len(missing) > 0 {
		return eris.Wrapf(domain.ErrConfigMissing, "missing %s", strings.Join(missing, ", "))
	}
	if c.Inference.MaxTokens <= 0 {
		return eris.Errorf("config: inference.max_tokens must be positive (got %d)", c.Inference.MaxTokens)
	}
	if err := xlsxexport.CheckSheetName(c.Export.SheetName); err != nil {
		return eris.Wrapf(err, "config: export.sheet_name %q", c.Export.SheetName)
	}
	return nil
}

// ModelName returns the model identifier of the selected provider.
func (c *Config) ModelName() string {
	switch c.Inference.Provider {
	case ProviderOCI:
		return c.OCI.ModelID
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderClaude:
		return c.Claude.Model
	default:
		return ""
	}
}
