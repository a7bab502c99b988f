package config

import (
	"fmt"
	"os"
	"time"

	"StockSentry/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Scheduler struct {
		Interval     time.Duration `yaml:"interval" default:"60s"`
		MarketOpen   string        `yaml:"market_open" default:"09:15"`
		MarketClose  string        `yaml:"market_close" default:"15:30"`
		ReportHour   int           `yaml:"report_hour" default:"16" validate:"gte=0,lte=23"`
		Timezone     string        `yaml:"timezone" default:"Asia/Kolkata"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"10s"`
		Workers      int           `yaml:"workers" default:"4" validate:"gt=0"`
	} `yaml:"scheduler"`
	Portfolio struct {
		Path string `yaml:"path" default:"config/portfolios.csv"`
	} `yaml:"portfolio"`
	Telegram struct {
		Token   string        `yaml:"token" validate:"required"`
		APIURL  string        `yaml:"api_url" default:"https://api.telegram.org"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"telegram"`
	News struct {
		APIURL   string        `yaml:"api_url" default:"https://newsdata.io/api/1/news"`
		APIKey   string        `yaml:"api_key" validate:"required"`
		Country  string        `yaml:"country" default:"in"`
		Language string        `yaml:"language" default:"en"`
		PageSize int           `yaml:"page_size" default:"5" validate:"gt=0"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"news"`
	Sentiment struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"sentiment"`
	Dedup struct {
		Backend   string `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		MaxTitles int    `yaml:"max_titles" default:"500" validate:"gte=0"`
		Redis     struct {
			Addr     string        `yaml:"addr"`
			Password string        `yaml:"password"`
			DB       int           `yaml:"db"`
			TTL      time.Duration `yaml:"ttl" default:"168h"`
		} `yaml:"redis"`
	} `yaml:"dedup"`
}

// Load reads and parses a YAML configuration file, applies defaults, and
// validates required fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Credentials have no config-file defaults; the environment is
// the expected way to supply them.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("PORTFOLIO_CSV"); v != "" {
		c.Portfolio.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Dedup.Redis.Addr = v
	}
	if v := os.Getenv("DEDUP_BACKEND"); v != "" {
		c.Dedup.Backend = v
	}
	c.Scheduler.ReportHour = util.ParseIntDefault(os.Getenv("REPORT_HOUR"), c.Scheduler.ReportHour)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks struct tags plus the cross-field rules the tags cannot
// express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	open, err := time.Parse("15:04", c.Scheduler.MarketOpen)
	if err != nil {
		return fmt.Errorf("scheduler.market_open: %w", err)
	}
	end, err := time.Parse("15:04", c.Scheduler.MarketClose)
	if err != nil {
		return fmt.Errorf("scheduler.market_close: %w", err)
	}
	if !open.Before(end) {
		return fmt.Errorf("scheduler.market_open must be before market_close")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone: %w", err)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	if c.Dedup.Backend == "redis" && c.Dedup.Redis.Addr == "" {
		return fmt.Errorf("dedup.redis.addr is required for the redis backend")
	}
	return nil
}
