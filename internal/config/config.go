package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the effective semtag configuration.
type Config struct {
	BaseURI     string          `mapstructure:"base_uri" yaml:"base_uri"`
	MetadataDir string          `mapstructure:"metadata_dir" yaml:"metadata_dir"`
	Ontology    OntologyConfig  `mapstructure:"ontology" yaml:"ontology"`
	Library     LibraryConfig   `mapstructure:"library" yaml:"library"`
	API         APIConfig       `mapstructure:"api" yaml:"api"`
	Transform   TransformConfig `mapstructure:"transform" yaml:"transform"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
	Metrics     MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// OntologyConfig names the target ontology.
type OntologyConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
}

// LibraryConfig describes the generated tagging library.
type LibraryConfig struct {
	Prefix      string `mapstructure:"prefix" yaml:"prefix"`
	PackageName string `mapstructure:"package_name" yaml:"package_name"`
}

// APIConfig configures the SysML v2 API client.
type APIConfig struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// TransformConfig toggles optional tagging rules.
type TransformConfig struct {
	IncludeOwnership bool `mapstructure:"include_ownership" yaml:"include_ownership"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig configures the run metrics export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// EnvPrefix prefixes environment overrides, e.g. SEMTAG_BASE_URI.
const EnvPrefix = "SEMTAG"

// Defaults.
const (
	DefaultBaseURI           = "http://tuwien.at/ns/"
	DefaultMetadataDir       = "./res/jsonld/metamodel"
	DefaultOntologyNamespace = "https://www.w3.org/ns/sosa/"
	DefaultOntologyPrefix    = "sosa:"
	DefaultLibraryPrefix     = "SOSA_"
	DefaultPackageName       = "SosaTags"
	DefaultAPIEndpoint       = "http://localhost:9000/"
)

// New returns a viper instance carrying the defaults and environment
// bindings. Command flags are bound onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("base_uri", DefaultBaseURI)
	v.SetDefault("metadata_dir", DefaultMetadataDir)
	v.SetDefault("ontology.namespace", DefaultOntologyNamespace)
	v.SetDefault("ontology.prefix", DefaultOntologyPrefix)
	v.SetDefault("library.prefix", DefaultLibraryPrefix)
	v.SetDefault("library.package_name", DefaultPackageName)
	v.SetDefault("api.endpoint", DefaultAPIEndpoint)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("transform.include_ownership", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.textfile", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and returns the validated
// configuration. An empty path looks for semtag.yaml in the working
// directory; a missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("semtag")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURI) == "" {
		return errors.New("base_uri must not be empty")
	}
	if strings.TrimSpace(c.Ontology.Namespace) == "" {
		return errors.New("ontology.namespace must not be empty")
	}
	if strings.TrimSpace(c.Library.Prefix) == "" {
		return errors.New("library.prefix must not be empty")
	}
	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return fmt.Errorf("api.endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.endpoint must be an http(s) URL, got: %s", c.API.Endpoint)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got: %d", c.API.MaxRetries)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got: %s", c.Log.Format)
	}
	return nil
}
