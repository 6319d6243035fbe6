package types

import (
	"context"
)

// DataFetcher is the bulk fetch API used to initialize a chart.
// Empty results mean nothing to initialize, not an error.
//
//go:generate mockgen -destination=mocks/mock_data_fetcher.go -package=mocks . DataFetcher
type DataFetcher interface {
	FetchKLines(ctx context.Context, key LogicalKey, replayCursor int64) ([]KLineRow, error)
	FetchIndicator(ctx context.Context, key LogicalKey, replayCursor int64) ([]IndicatorRow, error)
	FetchOpenOrders(ctx context.Context, strategyID string) ([]Order, error)
	FetchOpenPositions(ctx context.Context, strategyID string) ([]Position, error)
}
