package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/types"
)

const sampleConfig = `
server:
  bind: ":9000"
source:
  driver: redis
  redis:
    host: redis
    port: "6380"
api:
  baseURL: http://localhost:3000
  timeout: 5s
trim:
  tick:
    lengthCap: 500
    trimAmount: 50
    rangeThreshold: 100
charts:
- id: 1
  strategyId: "42"
  kline: kline|binance|BTCUSDT|1m
  replayCursor: 10
  indicators:
  - key: indicator|binance|BTCUSDT|1m|sma:20
  - key: indicator|binance|BTCUSDT|1m|ema:50
    deleted: true
  operations:
  - key: indicator|binance|BTCUSDT|1m|cross:sma:20:ema:50
`

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chartsync.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleConfig), 0644))

	config, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, ":9000", config.Server.Bind)
	assert.Equal(t, SourceDriverRedis, config.Source.Driver)
	assert.Equal(t, "6380", config.Source.Redis.Port)
	assert.Equal(t, 5*time.Second, config.API.Timeout)
	assert.Equal(t, uint64(3), config.API.MaxRetries)
	assert.Equal(t, chart.TrimPolicy{LengthCap: 500, TrimAmount: 50, RangeThreshold: 100}, config.Trim.Tick)
	assert.Equal(t, chart.DefaultRangeTrimPolicy, config.Trim.Range)

	require.Len(t, config.Charts, 1)
	chartConfig := config.Charts[0]
	assert.Equal(t, int64(10), chartConfig.ReplayCursor)
	assert.Equal(t, []types.LogicalKey{
		"kline|binance|BTCUSDT|1m",
		"indicator|binance|BTCUSDT|1m|sma:20",
		"indicator|binance|BTCUSDT|1m|cross:sma:20:ema:50",
	}, chartConfig.ActiveKeys())
	assert.Equal(t, []types.LogicalKey{
		"indicator|binance|BTCUSDT|1m|sma:20",
		"indicator|binance|BTCUSDT|1m|cross:sma:20:ema:50",
	}, chartConfig.SeriesKeys())
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("CHARTSYNC_BIND", ":7000")
	t.Setenv("CHARTSYNC_SOURCE_DRIVER", "websocket")
	t.Setenv("CHARTSYNC_WEBSOCKET_URL", "ws://localhost:3000/ws")

	config, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", config.Server.Bind)
	assert.Equal(t, SourceDriverWebsocket, config.Source.Driver)
	assert.Equal(t, "ws://localhost:3000/ws", config.Source.WebsocketURL)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("source:\n  driver: kafka\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("charts:\n- id: 1\n  kline: indicator|binance|BTCUSDT|1m|sma:20\n"))
	assert.ErrorIs(t, err, types.ErrMalformedLogicalKey)

	_, err = Parse([]byte("source:\n  driver: websocket\n"))
	assert.Error(t, err)
}
