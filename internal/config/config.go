// Package config 讀取執行設定 (環境變數與 .env)
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config 執行設定
type Config struct {
	Port         int    `mapstructure:"PORT"`
	Host         string `mapstructure:"HOST"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	ProfilesFile string `mapstructure:"PROFILES_FILE"`
	OpenBrowser  bool   `mapstructure:"OPEN_BROWSER"`
}

var keys = []string{"PORT", "HOST", "ENV", "LOG_LEVEL", "PROFILES_FILE", "OPEN_BROWSER"}

// Load 讀取設定，.env 不存在時只用環境變數與預設值
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// PORT 0 代表自動尋找可用的埠
	v.SetDefault("PORT", 0)
	v.SetDefault("HOST", "127.0.0.1")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PROFILES_FILE", "")
	v.SetDefault("OPEN_BROWSER", true)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

// IsDev 是否為開發模式
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Addr 伺服器監聽位址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate 檢查設定值
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.Host == "" {
		return fmt.Errorf("HOST is required")
	}
	return nil
}
