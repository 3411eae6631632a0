package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// ConfigDir holds settings, stats and logs. Empty means ~/.config/rephrase.
	ConfigDir string `env:"REPHRASE_CONFIG_DIR"`

	// OS automation knobs. Clipboard update is asynchronous relative to the
	// injected keystroke, so capture polls with a bounded retry loop.
	InjectionTimeout      time.Duration `env:"INJECTION_TIMEOUT" envDefault:"2s"`
	ClipboardPollAttempts int           `env:"CLIPBOARD_POLL_ATTEMPTS" envDefault:"3"`
	ClipboardPollDelay    time.Duration `env:"CLIPBOARD_POLL_DELAY" envDefault:"120ms"`
	MenuCopyFallback      bool          `env:"MENU_COPY_FALLBACK" envDefault:"true"`

	// API dispatch.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"2"`

	// Keychain identity for the stored API key.
	KeychainService string `env:"KEYCHAIN_SERVICE" envDefault:"rephrase-app"`
	KeychainAccount string `env:"KEYCHAIN_ACCOUNT" envDefault:"openai-api-key"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = filepath.Join(home, ".config", "rephrase")
	}

	return cfg, nil
}

// LogDir is where dated log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.ConfigDir, "logs")
}

// SettingsPath is the persisted user settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.ConfigDir, "settings.toml")
}

// StatsPath is the usage statistics database.
func (c *Config) StatsPath() string {
	return filepath.Join(c.ConfigDir, "stats.db")
}
