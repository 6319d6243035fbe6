package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/c9s/chartsync/pkg/chart"
	"github.com/c9s/chartsync/pkg/config"
	"github.com/c9s/chartsync/pkg/engine"
	"github.com/c9s/chartsync/pkg/stream"
	"github.com/c9s/chartsync/pkg/types"
	"github.com/c9s/chartsync/pkg/types/mocks"
)

var testKLineKey = types.NewKLineKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	handler http.Handler
	hub     *stream.Hub
	fetcher *mocks.MockDataFetcher
	server  *Server
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockDataFetcher(ctrl)
	hub := stream.NewHub()

	registry := engine.NewRegistry(&engine.Environment{
		Fetcher: fetcher,
		Source:  hub,
		Trim: config.TrimConfig{
			Tick:  chart.DefaultTickTrimPolicy,
			Range: chart.TrimPolicy{LengthCap: 2, TrimAmount: 1, RangeThreshold: 1},
		},
	})

	s := New(context.Background(), registry, hub)
	return &testServer{handler: s.Handler(), hub: hub, fetcher: fetcher, server: s}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createChart(t *testing.T) {
	ts.fetcher.EXPECT().FetchKLines(gomock.Any(), testKLineKey, int64(5)).Return([]types.KLineRow{
		{Time: 60, Close: 1}, {Time: 120, Close: 2}, {Time: 180, Close: 3},
	}, nil)

	w := ts.do(t, "POST", "/api/charts/1", config.ChartConfig{KLine: testKLineKey, ReplayCursor: 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestServer_Ping(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestServer_ChartLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.createChart(t)

	t.Run("list", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/charts", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Charts []ChartSummary `json:"charts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Charts, 1)
		assert.Equal(t, int64(1), resp.Charts[0].ID)
		assert.Equal(t, 3, resp.Charts[0].Candles)
		assert.True(t, resp.Charts[0].IsDataInitialized)
		assert.Equal(t, 3, resp.Charts[0].Subscriptions)
	})

	t.Run("existing chart is not created twice", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/charts/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("publish and snapshot", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/streams/publish", gin.H{
			"topic":   "kline:" + string(testKLineKey),
			"payload": types.KLineRow{Time: 240, Close: 4},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(t, "GET", "/api/charts/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var snapshot engine.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
		require.Len(t, snapshot.State.Candles, 4)
		assert.Equal(t, 4.0, snapshot.State.Candles[3].Close)
	})

	t.Run("plot", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/charts/1/plot.png", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("visible range trims", func(t *testing.T) {
		w := ts.do(t, "PUT", "/api/charts/1/visible-range", types.LogicalRange{From: 2, To: 3})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"trimmed":1}`, w.Body.String())
	})

	t.Run("toggle visibility", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/charts/1/visibility", gin.H{"key": testKLineKey})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"key":"`+string(testKLineKey)+`","visible":false}`, w.Body.String())

		w = ts.do(t, "POST", "/api/charts/1/visibility", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		// a hidden kline leaves nothing to plot
		w = ts.do(t, "GET", "/api/charts/1/plot.png", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("restart with an invalid cursor", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/charts/1/reset?cursor=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		e, ok := ts.server.Registry.Get(1)
		require.True(t, ok)
		assert.NotEmpty(t, e.Snapshot().State.Candles)
	})

	t.Run("restart at a cursor", func(t *testing.T) {
		ts.fetcher.EXPECT().FetchKLines(gomock.Any(), testKLineKey, int64(7)).Return([]types.KLineRow{
			{Time: 600, Close: 7},
		}, nil)

		w := ts.do(t, "POST", "/api/charts/1/reset?cursor=7", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		e, ok := ts.server.Registry.Get(1)
		require.True(t, ok)
		candles := e.Snapshot().State.Candles
		require.Len(t, candles, 1)
		assert.Equal(t, int64(600), candles[0].Time)
		assert.Len(t, e.Snapshot().Subscriptions, 3)
	})

	t.Run("reset", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/charts/1/reset", nil)
		require.Equal(t, http.StatusOK, w.Code)

		e, ok := ts.server.Registry.Get(1)
		require.True(t, ok)
		assert.Empty(t, e.Snapshot().State.Candles)
	})

	t.Run("remove", func(t *testing.T) {
		w := ts.do(t, "DELETE", "/api/charts/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, ts.hub.Topics())

		w = ts.do(t, "GET", "/api/charts/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = ts.do(t, "DELETE", "/api/charts/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServer_CreateChartErrors(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/api/charts/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), engine.ErrConfigMissing.Error())

	w = ts.do(t, "POST", "/api/charts/1", config.ChartConfig{KLine: "kline|binance"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/charts/abc", config.ChartConfig{KLine: testKLineKey})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "PUT", "/api/charts/9/visible-range", types.LogicalRange{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_PublishWithoutPublisher(t *testing.T) {
	ts := newTestServer(t)
	ts.server.Publisher = nil

	w := ts.do(t, "POST", "/api/streams/publish", gin.H{"topic": "kline:x", "payload": gin.H{}})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
