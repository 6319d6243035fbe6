package types

// KLineRow is a kline as delivered by the bulk fetch API and the kline stream.
// Time may be in seconds or milliseconds, see AlignTime.
type KLineRow struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`
}

func (k KLineRow) ToCandle() Candle {
	return Candle{
		Time:  AlignTime(k.Time),
		Open:  k.Open,
		High:  k.High,
		Low:   k.Low,
		Close: k.Close,
	}
}

// KLineRows converts the fetched rows into candles, keeping the row order.
func KLineRows(rows []KLineRow) []Candle {
	candles := make([]Candle, 0, len(rows))
	for _, row := range rows {
		candles = append(candles, row.ToCandle())
	}
	return candles
}
