package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/m3rciful/coinbot/bot/market"
	"github.com/m3rciful/coinbot/bot/quickchart"
	coreconfig "github.com/m3rciful/coinbot/core/config"
)

// DefaultChannelURL is linked from the main menu unless bot.channel_url overrides it.
const DefaultChannelURL = "https://t.me/kruzhechka_dev"

// Config is the core configuration plus the coinbot section.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Bot BotConfig `yaml:"bot"`
}

// BotConfig holds settings specific to this bot.
type BotConfig struct {
	DefaultLanguage string       `yaml:"default_language" envconfig:"BOT_DEFAULT_LANGUAGE"`
	ChannelURL      string       `yaml:"channel_url" envconfig:"BOT_CHANNEL_URL"`
	Market          MarketConfig `yaml:"market"`
	Chart           ChartConfig  `yaml:"chart"`
}

// MarketConfig points at the CoinGecko API.
type MarketConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"COINGECKO_BASE_URL"`
	APIKey  string `yaml:"api_key" envconfig:"COINGECKO_API_KEY"`
}

// ChartConfig points at QuickChart and sizes rendered images.
type ChartConfig struct {
	BaseURL     string `yaml:"base_url" envconfig:"QUICKCHART_BASE_URL"`
	Width       int    `yaml:"width" envconfig:"CHART_WIDTH"`
	Height      int    `yaml:"height" envconfig:"CHART_HEIGHT"`
	Version     string `yaml:"version" envconfig:"CHART_VERSION"`
	Background  string `yaml:"background" envconfig:"CHART_BACKGROUND"`
	DefaultDays int    `yaml:"default_days" envconfig:"CHART_DEFAULT_DAYS"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads .env, the YAML file at path and the environment, then validates.
func LoadConfig(path string) (*Config, error) {
	if err := coreconfig.LoadEnvFiles(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := coreconfig.ReadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeBot(&cfg.Bot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeBot(b *BotConfig) error {
	b.DefaultLanguage = strings.ToLower(strings.TrimSpace(b.DefaultLanguage))
	if strings.TrimSpace(b.ChannelURL) == "" {
		b.ChannelURL = DefaultChannelURL
	}
	if b.Market.BaseURL == "" {
		b.Market.BaseURL = market.DefaultBaseURL
	}
	if b.Chart.BaseURL == "" {
		b.Chart.BaseURL = quickchart.DefaultBaseURL
	}
	for name, raw := range map[string]string{
		"bot.channel_url":     b.ChannelURL,
		"bot.market.base_url": b.Market.BaseURL,
		"bot.chart.base_url":  b.Chart.BaseURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if b.Chart.Width < 0 || b.Chart.Height < 0 {
		return fmt.Errorf("bot.chart.width and bot.chart.height must be >= 0")
	}
	if b.Chart.DefaultDays < 0 {
		return fmt.Errorf("bot.chart.default_days must be >= 0")
	}
	return nil
}
