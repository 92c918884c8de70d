package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	RegistryPath   string `yaml:"registry_path"`
	PlotDir        string `yaml:"plot_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	SafeMode       bool   `yaml:"safe_mode"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.anthropic.com/v1/messages",
		Model:          "claude-sonnet-4",
		MaxTokens:      4096,
		RegistryPath:   DefaultRegistryFile,
		PlotDir:        "./plots",
		TimeoutSeconds: 30,
		SafeMode:       true,
	}
}

// DefaultExecTimeout is the foreground command timeout when the caller
// supplies none.
func (c Config) DefaultExecTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return applyEnv(cfg), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1/messages"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = DefaultRegistryFile
	}
	if cfg.PlotDir == "" {
		cfg.PlotDir = "./plots"
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("HWAGENT_API_KEY")
	}
	if v := os.Getenv("HWAGENT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("HWAGENT_MODEL"); v != "" {
		cfg.Model = v
	}
	return cfg
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "hwagent", "config.yml")
}
