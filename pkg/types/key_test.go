package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogicalKey(t *testing.T) {
	t.Run("kline", func(t *testing.T) {
		key := NewKLineKey(ExchangeBinance, "BTCUSDT", Interval1m)
		assert.Equal(t, LogicalKey("kline|binance|BTCUSDT|1m"), key)

		info, err := key.Parse()
		require.NoError(t, err)
		assert.Equal(t, KeyKindKLine, info.Kind)
		assert.Equal(t, ExchangeBinance, info.Exchange)
		assert.Equal(t, "BTCUSDT", info.Symbol)
		assert.Equal(t, Interval1m, info.Interval)
		assert.Empty(t, info.Indicator)
	})

	t.Run("indicator with separator in params", func(t *testing.T) {
		key := NewIndicatorKey(ExchangeBinance, "ETHUSDT", Interval1h, "boll:20|2")
		info, err := key.Parse()
		require.NoError(t, err)
		assert.Equal(t, KeyKindIndicator, info.Kind)
		assert.Equal(t, "boll:20|2", info.Indicator)
		assert.Equal(t, Interval1h, info.Interval)
	})

	t.Run("statistics", func(t *testing.T) {
		info, err := NewStatisticsKey("42").Parse()
		require.NoError(t, err)
		assert.Equal(t, KeyKindStatistics, info.Kind)
		assert.Equal(t, "42", info.StrategyID)
	})

	malformed := []string{
		"",
		"kline|binance|BTCUSDT",
		"kline|binance|BTCUSDT|7m",
		"kline||BTCUSDT|1m",
		"indicator|binance|BTCUSDT|1m",
		"indicator|binance|BTCUSDT|1m|",
		"statistics|",
		"orderbook|binance|BTCUSDT",
	}
	for _, s := range malformed {
		t.Run("malformed "+s, func(t *testing.T) {
			_, err := ParseLogicalKey(s)
			assert.ErrorIs(t, err, ErrMalformedLogicalKey)
		})
	}
}

func TestStreamRequest_Topic(t *testing.T) {
	key := NewKLineKey(ExchangeBinance, "BTCUSDT", Interval1m)
	assert.Equal(t, "kline:kline|binance|BTCUSDT|1m", StreamRequest{Channel: KLineChannel, Key: key}.Topic())
	assert.Equal(t, "order:binance:BTCUSDT", StreamRequest{Channel: OrderChannel, Key: key, Exchange: ExchangeBinance, Symbol: "BTCUSDT"}.Topic())
	assert.Equal(t, "statistics:42", StreamRequest{Channel: StatisticsChannel, StrategyID: "42"}.Topic())
}
