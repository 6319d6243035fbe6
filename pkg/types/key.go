package types

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedLogicalKey is returned when a key does not match any known shape.
var ErrMalformedLogicalKey = errors.New("malformed logical key")

const keySeparator = "|"

type KeyKind string

const (
	KeyKindKLine      KeyKind = "kline"
	KeyKindIndicator  KeyKind = "indicator"
	KeyKindStatistics KeyKind = "statistics"
)

// LogicalKey identifies one data series, for example
//
//	kline|binance|BTCUSDT|1m
//	indicator|binance|BTCUSDT|1m|sma:20
//	statistics|strategy-42
type LogicalKey string

func (k LogicalKey) String() string {
	return string(k)
}

// Kind returns the kind prefix of the key without validating the rest.
func (k LogicalKey) Kind() KeyKind {
	s := string(k)
	if idx := strings.Index(s, keySeparator); idx >= 0 {
		return KeyKind(s[:idx])
	}
	return KeyKind(s)
}

func (k LogicalKey) Parse() (KeyInfo, error) {
	return ParseLogicalKey(string(k))
}

type KeyInfo struct {
	Kind       KeyKind
	Exchange   ExchangeName
	Symbol     string
	Interval   Interval
	Indicator  string
	StrategyID string
}

func NewKLineKey(exchange ExchangeName, symbol string, interval Interval) LogicalKey {
	return LogicalKey(strings.Join([]string{string(KeyKindKLine), exchange.String(), symbol, interval.String()}, keySeparator))
}

func NewIndicatorKey(exchange ExchangeName, symbol string, interval Interval, indicator string) LogicalKey {
	return LogicalKey(strings.Join([]string{string(KeyKindIndicator), exchange.String(), symbol, interval.String(), indicator}, keySeparator))
}

func NewStatisticsKey(strategyID string) LogicalKey {
	return LogicalKey(string(KeyKindStatistics) + keySeparator + strategyID)
}

// ParseLogicalKey splits the key into its parts. The indicator part is the
// remainder of the key, so indicator parameters may contain any character.
func ParseLogicalKey(s string) (KeyInfo, error) {
	kind := LogicalKey(s).Kind()
	switch kind {
	case KeyKindKLine:
		parts := strings.Split(s, keySeparator)
		if len(parts) != 4 {
			return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: expect 4 parts, got %d", s, len(parts))
		}

		return newMarketKeyInfo(s, kind, parts[1], parts[2], parts[3], "")

	case KeyKindIndicator:
		parts := strings.SplitN(s, keySeparator, 5)
		if len(parts) != 5 || len(parts[4]) == 0 {
			return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: missing indicator config", s)
		}

		return newMarketKeyInfo(s, kind, parts[1], parts[2], parts[3], parts[4])

	case KeyKindStatistics:
		parts := strings.SplitN(s, keySeparator, 2)
		if len(parts) != 2 || len(parts[1]) == 0 {
			return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: missing strategy id", s)
		}

		return KeyInfo{Kind: kind, StrategyID: parts[1]}, nil
	}

	return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: unknown key kind %q", s, kind)
}

func newMarketKeyInfo(s string, kind KeyKind, exchange, symbol, interval, indicator string) (KeyInfo, error) {
	if len(exchange) == 0 || len(symbol) == 0 {
		return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: empty exchange or symbol", s)
	}

	iv, err := ParseInterval(interval)
	if err != nil {
		return KeyInfo{}, errors.Wrapf(ErrMalformedLogicalKey, "%q: %s", s, err.Error())
	}

	return KeyInfo{
		Kind:      kind,
		Exchange:  ExchangeName(exchange),
		Symbol:    symbol,
		Interval:  iv,
		Indicator: indicator,
	}, nil
}
