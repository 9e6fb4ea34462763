package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is everything the engines and CLI need. Loaded from
// ~/.config/librarium/config.yml with LIBRARIUM_* env overrides.
type Config struct {
	LibraryPath   string `mapstructure:"library_path" yaml:"library_path"`
	EbookMetaPath string `mapstructure:"ebook_meta_path" yaml:"ebook_meta_path"`
	PythonPath    string `mapstructure:"python_path" yaml:"python_path,omitempty"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
}

// CatalogConfig controls the search engine.
type CatalogConfig struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Language string `mapstructure:"language" yaml:"language"`
	MaxPages int    `mapstructure:"max_pages" yaml:"max_pages"`
}

// DownloadConfig controls the download engine.
type DownloadConfig struct {
	// DirectHosts are mirror hosts rendered with a download section rather
	// than a bare GET anchor.
	DirectHosts   []string      `mapstructure:"direct_hosts" yaml:"direct_hosts"`
	PageTimeout   time.Duration `mapstructure:"page_timeout" yaml:"page_timeout"`
	HeaderTimeout time.Duration `mapstructure:"header_timeout" yaml:"header_timeout"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "librarium", "config.yml")
}

func defaultLibraryPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "books")
}

// Load reads the config from disk (or env). A missing file is fine; every
// field has a default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("library_path", defaultLibraryPath())
	v.SetDefault("ebook_meta_path", "ebook-meta")
	v.SetDefault("python_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog.base_url", "https://libgen.li")
	v.SetDefault("catalog.language", "english")
	v.SetDefault("catalog.max_pages", 9)
	v.SetDefault("download.direct_hosts", []string{"library.lol"})
	v.SetDefault("download.page_timeout", 5*time.Minute)
	v.SetDefault("download.header_timeout", 30*time.Second)

	v.SetEnvPrefix("LIBRARIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("LIBRARIUM_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
