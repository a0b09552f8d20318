package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Player  PlayerConfig  `toml:"player"`
	UI      UIConfig      `toml:"ui"`
}

// ServerConfig describes how to reach the Wissl server.
type ServerConfig struct {
	URL               string `toml:"url"`
	Timeout           int    `toml:"timeout"`
	RequestsPerSecond int    `toml:"requests_per_second"`
}

// StorageConfig contains local persistence settings.
type StorageConfig struct {
	Path string `toml:"path"`
}

// PlayerConfig configures the external audio player process.
type PlayerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Volume  int      `toml:"volume"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	PollInterval int `toml:"poll_interval"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
