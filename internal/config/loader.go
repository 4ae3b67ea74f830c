package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".wikigraph"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file layout.
type File struct {
	// Archive is the path to the multistream bzip2 archive.
	Archive string `yaml:"archive"`

	// Index is the path to the SQLite offset index.
	Index string `yaml:"index"`

	// Seeds are the seed article titles.
	Seeds []string `yaml:"seeds"`

	// AcceptBound overrides the default acceptance quota when positive.
	AcceptBound int `yaml:"accept_bound"`

	// Classifier configures the pattern classifier.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Redis configures the classification cache connection.
	Redis RedisConfig `yaml:"redis"`
}

// ClassifierConfig holds pattern classifier settings.
type ClassifierConfig struct {
	// Patterns are regular expressions matched against an article's
	// categories and plain text. Any match classifies positive.
	Patterns []string `yaml:"patterns"`
}

// RedisConfig holds classification cache connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// decide whether that is fatal based on whether the path was given
// explicitly by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wikigraph in the current directory
// 3. Look for .wikigraph in the user's home directory
//
// Returns the path to the configuration file if found, or empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies file settings onto cfg. Flags already set on cfg win:
// a value is only copied when the corresponding cfg field still holds
// its zero or default value.
func (f *File) Apply(cfg *Config) {
	if cfg.ArchivePath == "" {
		cfg.ArchivePath = f.Archive
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = f.Index
	}
	if len(cfg.Seeds) == 0 {
		cfg.Seeds = f.Seeds
	}
	if cfg.AcceptBound == DefaultAcceptBound && f.AcceptBound > 0 {
		cfg.AcceptBound = f.AcceptBound
	}
	if len(cfg.ClassifierPatterns) == 0 {
		cfg.ClassifierPatterns = f.Classifier.Patterns
	}
	if cfg.RedisAddress == DefaultRedisAddress && f.Redis.Address != "" {
		cfg.RedisAddress = f.Redis.Address
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = f.Redis.Password
	}
	if cfg.RedisDB == 0 {
		cfg.RedisDB = f.Redis.DB
	}
}
