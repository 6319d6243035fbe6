package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/chartsync/pkg/types"
)

func TestCanvas(t *testing.T) {
	canvas := NewCanvas("kline:binance:BTCUSDT:1m")
	canvas.PlotCandles("close", []types.Candle{{Time: 60, Close: 1}})
	canvas.PlotValues("sma", nil)
	assert.True(t, canvas.Empty(), "a single point can not be plotted")

	canvas.PlotCandles("close", []types.Candle{
		{Time: 60, Close: 1}, {Time: 120, Close: 2}, {Time: 180, Close: 1.5},
	})
	canvas.PlotValues("sma", []types.ValuePoint{{Time: 120, Value: 1.5}, {Time: 180, Value: 1.75}})
	canvas.PlotPriceLines([]types.PriceLine{{ID: "7-limit", Price: 1.2, Title: "BUY 1 @ 1.2"}}, 60, 180)
	require.False(t, canvas.Empty())
	assert.Len(t, canvas.Series, 3)

	var buf bytes.Buffer
	require.NoError(t, canvas.RenderPNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
