package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/envvar"
)

const DefaultBind = ":8080"

// Load parses the config file, fills the defaults and applies the
// CHARTSYNC_* environment overrides.
func Load(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", configFile)
	}

	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrap(err, "unable to parse config")
	}

	config.ApplyEnv()
	config.Defaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Defaults fills the zero fields.
func (c *Config) Defaults() {
	if len(c.Server.Bind) == 0 {
		c.Server.Bind = DefaultBind
	}

	if len(c.Source.Driver) == 0 {
		c.Source.Driver = SourceDriverLocal
	}

	if c.Source.Driver == SourceDriverRedis && c.Source.Redis == nil {
		c.Source.Redis = &RedisConfig{Host: "localhost", Port: "6379"}
	}

	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}

	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = 3
	}

	if c.Trim.Tick.IsZero() {
		c.Trim.Tick = chart.DefaultTickTrimPolicy
	}

	if c.Trim.Range.IsZero() {
		c.Trim.Range = chart.DefaultRangeTrimPolicy
	}
}

func (c *Config) ApplyEnv() {
	envvar.SetString("BIND", &c.Server.Bind)
	envvar.SetString("SOURCE_DRIVER", &c.Source.Driver)
	envvar.SetString("WEBSOCKET_URL", &c.Source.WebsocketURL)
	envvar.SetString("API_BASE_URL", &c.API.BaseURL)
	envvar.SetDuration("API_TIMEOUT", &c.API.Timeout)

	if v, ok := envvar.Uint64("API_MAX_RETRIES"); ok {
		c.API.MaxRetries = v
	}

	if host, ok := envvar.String("REDIS_HOST"); ok {
		if c.Source.Redis == nil {
			c.Source.Redis = &RedisConfig{Port: "6379"}
		}

		c.Source.Redis.Host = host
		envvar.SetString("REDIS_PORT", &c.Source.Redis.Port)
		envvar.SetString("REDIS_PASSWORD", &c.Source.Redis.Password)
		envvar.SetInt("REDIS_DB", &c.Source.Redis.DB)
	}
}

func (c *Config) Validate() error {
	switch c.Source.Driver {
	case SourceDriverLocal, SourceDriverRedis:
	case SourceDriverWebsocket:
		if len(c.Source.WebsocketURL) == 0 {
			return errors.New("source.websocketURL is required by the websocket driver")
		}
	default:
		return errors.Errorf("unsupported source driver %q", c.Source.Driver)
	}

	ids := map[int64]struct{}{}
	for i := range c.Charts {
		chartConfig := &c.Charts[i]
		if _, dup := ids[chartConfig.ID]; dup {
			return errors.Errorf("duplicated chart id %d", chartConfig.ID)
		}
		ids[chartConfig.ID] = struct{}{}

		if err := chartConfig.Validate(); err != nil {
			return err
		}
	}

	return nil
}
