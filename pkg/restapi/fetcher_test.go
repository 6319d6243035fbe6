package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/chartsync/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RestClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	require.NoError(t, err)
	return client
}

func TestRestClient_FetchKLines(t *testing.T) {
	key := types.NewKLineKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/klines", r.URL.Path)
		assert.Equal(t, string(key), r.URL.Query().Get("key"))
		assert.Equal(t, "42", r.URL.Query().Get("cursor"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"time":100,"open":1,"high":2,"low":0.5,"close":1.5},{"time":200,"open":1.5,"high":2,"low":1,"close":1.8}]}`))
	})

	rows, err := client.FetchKLines(context.Background(), key, 42)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(200), rows[1].Time)
	assert.Equal(t, 1.8, rows[1].Close)
}

func TestRestClient_FetchIndicator(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/indicators", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"time":100,"sma":1.5,"ema":null}]}`))
	})

	rows, err := client.FetchIndicator(context.Background(), types.NewIndicatorKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m, "sma:20"), 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.IndicatorValues{"sma": {{Time: 100, Value: 1.5}}}, rows[0].Points())
}

func TestRestClient_FetchOpenOrdersAndPositions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/strategies/s1/orders":
			_, _ = w.Write([]byte(`{"success":true,"data":[{"orderId":"7","orderType":"LIMIT","orderStatus":"PLACED","side":"BUY","openPrice":100,"quantity":1}]}`))
		case "/api/v1/strategies/s1/positions":
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	orders, err := client.FetchOpenOrders(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].IsPendingLimit())

	positions, err := client.FetchOpenPositions(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestRestClient_Retry(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})

	orders, err := client.FetchOpenOrders(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"bad key"}`))
	})

	_, err := client.FetchKLines(context.Background(), "kline|x", 0)
	require.Error(t, err)

	var apiErr *APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRestClient_ErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"strategy not found"}`))
	})

	_, err := client.FetchOpenPositions(context.Background(), "s1")
	assert.ErrorContains(t, err, "strategy not found")
}

func TestRestClient_UnsuccessfulWithoutMessage(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"data":[{"time":100,"close":1}]}`))
	})

	rows, err := client.FetchKLines(context.Background(), types.NewKLineKey(types.ExchangeBinance, "BTCUSDT", types.Interval1m), 0)
	assert.ErrorContains(t, err, "request was not successful")
	assert.Empty(t, rows)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
