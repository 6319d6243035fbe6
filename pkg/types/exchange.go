package types

import (
	"strings"
)

type ExchangeName string

func (n ExchangeName) String() string {
	return string(n)
}

const (
	ExchangeMax      = ExchangeName("max")
	ExchangeBinance  = ExchangeName("binance")
	ExchangeOKEx     = ExchangeName("okex")
	ExchangeKucoin   = ExchangeName("kucoin")
	ExchangeBybit    = ExchangeName("bybit")
	ExchangeBacktest = ExchangeName("backtest")
)

// NormalizeExchangeName lower-cases the name and resolves the short aliases
func NormalizeExchangeName(a string) ExchangeName {
	switch s := strings.ToLower(strings.TrimSpace(a)); s {
	case "bn":
		return ExchangeBinance
	case "ok":
		return ExchangeOKEx
	default:
		return ExchangeName(s)
	}
}
