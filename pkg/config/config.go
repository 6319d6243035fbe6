package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/types"
)

const (
	SourceDriverLocal     = "local"
	SourceDriverWebsocket = "websocket"
	SourceDriverRedis     = "redis"
)

type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Source SourceConfig `json:"source" yaml:"source"`
	API    APIConfig    `json:"api" yaml:"api"`
	Trim   TrimConfig   `json:"trim" yaml:"trim"`

	// Charts are created and started when the service starts
	Charts []ChartConfig `json:"charts,omitempty" yaml:"charts,omitempty"`
}

type ServerConfig struct {
	Bind string `json:"bind" yaml:"bind"`
}

type RedisConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
}

type SourceConfig struct {
	// Driver is one of local, websocket and redis
	Driver string `json:"driver" yaml:"driver"`

	WebsocketURL string       `json:"websocketURL,omitempty" yaml:"websocketURL,omitempty"`
	Redis        *RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`

	// TopicPrefix is prepended to the redis channel names
	TopicPrefix string `json:"topicPrefix,omitempty" yaml:"topicPrefix,omitempty"`
}

type APIConfig struct {
	BaseURL    string        `json:"baseURL" yaml:"baseURL"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries uint64        `json:"maxRetries" yaml:"maxRetries"`
}

// TrimConfig holds the two trim policies. Tick runs after every live kline,
// Range runs when the visible range changes.
type TrimConfig struct {
	Tick  chart.TrimPolicy `json:"tick" yaml:"tick"`
	Range chart.TrimPolicy `json:"range" yaml:"range"`
}

type SeriesConfig struct {
	Key     types.LogicalKey `json:"key" yaml:"key"`
	Deleted bool             `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

// ChartConfig is consumed when a chart engine instance is created.
type ChartConfig struct {
	ID         int64            `json:"id" yaml:"id"`
	StrategyID string           `json:"strategyId,omitempty" yaml:"strategyId,omitempty"`
	KLine      types.LogicalKey `json:"kline" yaml:"kline"`
	Indicators []SeriesConfig   `json:"indicators,omitempty" yaml:"indicators,omitempty"`

	// Operations are the derived series of the strategy graph, they are
	// streamed like indicators
	Operations []SeriesConfig `json:"operations,omitempty" yaml:"operations,omitempty"`

	// ReplayCursor is the backtest replay position, -1 means not started
	ReplayCursor int64 `json:"replayCursor" yaml:"replayCursor"`
}

// ActiveKeys returns the kline key followed by the keys of the non-deleted
// indicators and operations, without duplicates.
func (c *ChartConfig) ActiveKeys() []types.LogicalKey {
	seen := map[types.LogicalKey]struct{}{}
	var keys []types.LogicalKey

	add := func(key types.LogicalKey) {
		if _, ok := seen[key]; ok || len(key) == 0 {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(c.KLine)
	for _, s := range c.Indicators {
		if !s.Deleted {
			add(s.Key)
		}
	}
	for _, s := range c.Operations {
		if !s.Deleted {
			add(s.Key)
		}
	}
	return keys
}

// SeriesKeys returns the active keys except the kline key.
func (c *ChartConfig) SeriesKeys() []types.LogicalKey {
	var keys []types.LogicalKey
	for _, key := range c.ActiveKeys() {
		if key != c.KLine {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *ChartConfig) KLineInfo() (types.KeyInfo, error) {
	info, err := c.KLine.Parse()
	if err != nil {
		return info, err
	}

	if info.Kind != types.KeyKindKLine {
		return info, errors.Wrapf(types.ErrMalformedLogicalKey, "%q is not a kline key", c.KLine)
	}

	return info, nil
}

// Validate checks the kline key only. Malformed indicator keys are reported
// when they are processed, they do not invalidate the whole chart.
func (c *ChartConfig) Validate() error {
	if _, err := c.KLineInfo(); err != nil {
		return errors.Wrapf(err, "chart %d", c.ID)
	}
	return nil
}

func (c *ChartConfig) Copy() *ChartConfig {
	out := *c
	out.Indicators = append([]SeriesConfig(nil), c.Indicators...)
	out.Operations = append([]SeriesConfig(nil), c.Operations...)
	return &out
}
