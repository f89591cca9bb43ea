/*
Package config manages the TOML config for wordcheck.

	[checker]
	max_dif = 2
	workers = 0
	parallel_threshold = 4096
	chunk_records = 2048

	[dict]
	path = "words.txt"
	format = "bucketed"
	max_word_len = 64

	[server]
	max_limit = 64
	max_batch = 256
	cache_size = 20000
	watch_config = true

	[cli]
	default_limit = 10
	color = true

A missing file is created with these defaults. A file with type errors is
recovered key by key; anything unusable falls back to the default.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Checker CheckerConfig `toml:"checker"`
	Dict    DictConfig    `toml:"dict"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// CheckerConfig tunes the suggestion engine.
type CheckerConfig struct {
	MaxDif            int `toml:"max_dif"`
	Workers           int `toml:"workers"`
	ParallelThreshold int `toml:"parallel_threshold"`
	ChunkRecords      int `toml:"chunk_records"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path       string `toml:"path"`
	Format     string `toml:"format"`
	MaxWordLen int    `toml:"max_word_len"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit    int  `toml:"max_limit"`
	MaxBatch    int  `toml:"max_batch"`
	CacheSize   int  `toml:"cache_size"`
	WatchConfig bool `toml:"watch_config"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	Color        bool `toml:"color"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordcheck
// 2. ~/Library/Application Support/wordcheck (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordcheck/config.toml
// 3. Builtin defaults
//
// The returned path is empty when only builtin defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Checker: CheckerConfig{
			MaxDif:            2,
			Workers:           0,
			ParallelThreshold: 4096,
			ChunkRecords:      2048,
		},
		Dict: DictConfig{
			Path:       "words.txt",
			Format:     "bucketed",
			MaxWordLen: 64,
		},
		Server: ServerConfig{
			MaxLimit:    64,
			MaxBatch:    256,
			CacheSize:   20000,
			WatchConfig: true,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			Color:        true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values that fail validation are reset
// to their defaults with a warning.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse keeps every key that still decodes to the right type.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "checker"); ok {
		extractCheckerConfig(section, &config.Checker)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractCheckerConfig(data map[string]any, checker *CheckerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_dif"); ok {
		checker.MaxDif = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		checker.Workers = val
	}
	if val, ok := utils.ExtractInt64(data, "parallel_threshold"); ok {
		checker.ParallelThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "chunk_records"); ok {
		checker.ChunkRecords = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		dict.Format = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		dict.MaxWordLen = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_batch"); ok {
		server.MaxBatch = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "watch_config"); ok {
		server.WatchConfig = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// sanitize resets out of range values to their defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	fix := func(name string, val *int, ok bool, fallback int) {
		if !ok {
			log.Warnf("Invalid %s=%d, using %d", name, *val, fallback)
			*val = fallback
		}
	}
	fix("checker.max_dif", &c.Checker.MaxDif, c.Checker.MaxDif >= 0, def.Checker.MaxDif)
	fix("checker.workers", &c.Checker.Workers, c.Checker.Workers >= 0, def.Checker.Workers)
	fix("checker.parallel_threshold", &c.Checker.ParallelThreshold, c.Checker.ParallelThreshold > 0, def.Checker.ParallelThreshold)
	fix("checker.chunk_records", &c.Checker.ChunkRecords, c.Checker.ChunkRecords > 0, def.Checker.ChunkRecords)
	fix("dict.max_word_len", &c.Dict.MaxWordLen, c.Dict.MaxWordLen > 0, def.Dict.MaxWordLen)
	fix("server.max_limit", &c.Server.MaxLimit, c.Server.MaxLimit >= 0, def.Server.MaxLimit)
	fix("server.max_batch", &c.Server.MaxBatch, c.Server.MaxBatch > 0, def.Server.MaxBatch)
	fix("server.cache_size", &c.Server.CacheSize, c.Server.CacheSize >= 0, def.Server.CacheSize)
	fix("cli.default_limit", &c.CLI.DefaultLimit, c.CLI.DefaultLimit >= 0, def.CLI.DefaultLimit)
	if c.Dict.Path == "" {
		c.Dict.Path = def.Dict.Path
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	if err := utils.SaveTOMLFile(config, configPath); err != nil {
		return fmt.Errorf("save config %s: %w", configPath, err)
	}
	return nil
}

// Update changes the runtime-tunable values and saves to file when
// configPath is set. Nil arguments are left alone.
func (c *Config) Update(configPath string, maxDif, maxLimit, maxBatch *int) error {
	if maxDif != nil {
		c.Checker.MaxDif = *maxDif
	}
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if maxBatch != nil {
		c.Server.MaxBatch = *maxBatch
	}
	c.sanitize()
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
