package infra

import (
	"fmt"
	"os"
	"strings"

	"apex_bot/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the bot needs. Loaded from YAML, then
// sensitive values are overridden from the environment (a local .env
// file is honored first, like the original deployment).
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Binance struct {
			RestURL      string `yaml:"rest_url"`
			WSURL        string `yaml:"ws_url"`
			APIKey       string `yaml:"api_key"`
			SecretKey    string `yaml:"secret_key"`
			RecvWindowMS int    `yaml:"recv_window_ms"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Trading struct {
		QuoteSuffix string `yaml:"quote_suffix"`
	} `yaml:"trading"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Web struct {
		ListenAddr     string   `yaml:"listen_addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"web"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Binance.RestURL == "" {
		c.API.Binance.RestURL = "https://testnet.binancefuture.com"
	}
	if c.API.Binance.WSURL == "" {
		c.API.Binance.WSURL = "wss://fstream.binancefuture.com"
	}
	if c.API.Binance.RecvWindowMS <= 0 {
		c.API.Binance.RecvWindowMS = 5000
	}
	if c.Trading.QuoteSuffix == "" {
		c.Trading.QuoteSuffix = domain.DefaultQuoteSuffix
	}
	if c.Web.ListenAddr == "" {
		c.Web.ListenAddr = ":8088"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/orders.db"
	}
}

// Validate checks configuration validity. Mainnet hosts are refused
// outright: this bot trades against the futures testnet only.
func (c *Config) Validate() error {
	rest := c.API.Binance.RestURL
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return fmt.Errorf("invalid Binance REST URL: %s", rest)
	}
	if !strings.Contains(rest, "testnet") {
		return fmt.Errorf("%w (got %s)", domain.ErrMainnetRefused, rest)
	}

	ws := c.API.Binance.WSURL
	if !strings.HasPrefix(ws, "ws://") && !strings.HasPrefix(ws, "wss://") {
		return fmt.Errorf("invalid Binance WS URL: %s", ws)
	}

	return nil
}

// HasCredentials reports whether an API key pair is configured.
func (c *Config) HasCredentials() bool {
	return c.API.Binance.APIKey != "" && c.API.Binance.SecretKey != ""
}

// overrideWithEnv pulls credentials from the environment. Testnet-specific
// variables win over the generic ones, matching the original bot.
func overrideWithEnv(cfg *Config) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	if key := firstEnv("BINANCE_TESTNET_API_KEY", "BINANCE_API_KEY"); key != "" {
		cfg.API.Binance.APIKey = key
	}
	if secret := firstEnv("BINANCE_TESTNET_API_SECRET", "BINANCE_API_SECRET"); secret != "" {
		cfg.API.Binance.SecretKey = secret
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
