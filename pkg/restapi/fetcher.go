package restapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/types"
	backoff2 "github.com/c9s/chartsync/pkg/util/backoff"
)

type apiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

var _ types.DataFetcher = &RestClient{}

// get sends a GET request and decodes the data field of the response into a
// value of T. Server errors are retried, client errors are not.
func get[T any](ctx context.Context, c *RestClient, refURL string, params url.Values) (T, error) {
	var data T

	op := func() error {
		req, err := c.NewRequest(ctx, "GET", refURL, params, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		response, err := c.SendRequest(req)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Temporary() {
				return backoff.Permanent(err)
			}

			log.WithError(err).Warnf("GET %s failed, retrying", refURL)
			return err
		}

		var resp apiResponse[T]
		if err := response.DecodeJSON(&resp); err != nil {
			return backoff.Permanent(errors.Wrapf(err, "GET %s: unable to decode response", refURL))
		}

		if !resp.Success {
			message := resp.Message
			if len(message) == 0 {
				message = "request was not successful"
			}
			return backoff.Permanent(errors.Errorf("GET %s: %s", refURL, message))
		}

		data = resp.Data
		return nil
	}

	err := backoff2.RetryWithMax(ctx, c.MaxRetries, op)
	return data, err
}

func keyParams(key types.LogicalKey, replayCursor int64) url.Values {
	params := url.Values{}
	params.Set("key", string(key))
	params.Set("cursor", strconv.FormatInt(replayCursor, 10))
	return params
}

func (c *RestClient) FetchKLines(ctx context.Context, key types.LogicalKey, replayCursor int64) ([]types.KLineRow, error) {
	return get[[]types.KLineRow](ctx, c, "/api/v1/klines", keyParams(key, replayCursor))
}

func (c *RestClient) FetchIndicator(ctx context.Context, key types.LogicalKey, replayCursor int64) ([]types.IndicatorRow, error) {
	return get[[]types.IndicatorRow](ctx, c, "/api/v1/indicators", keyParams(key, replayCursor))
}

func (c *RestClient) FetchOpenOrders(ctx context.Context, strategyID string) ([]types.Order, error) {
	return get[[]types.Order](ctx, c, "/api/v1/strategies/"+url.PathEscape(strategyID)+"/orders", nil)
}

func (c *RestClient) FetchOpenPositions(ctx context.Context, strategyID string) ([]types.Position, error) {
	return get[[]types.Position](ctx, c, "/api/v1/strategies/"+url.PathEscape(strategyID)+"/positions", nil)
}
