package types

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// ErrOutOfOrderPoint is returned when a point is older than the last buffered point.
var ErrOutOfOrderPoint = errors.New("point time is before the last buffered point")

type TimePoint interface {
	GetTime() int64
}

// Candle is a candlestick point, Time is in UTC seconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

func (c Candle) GetTime() int64 {
	return c.Time
}

// ValuePoint is a single value of a line series, Time is in UTC seconds.
type ValuePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

func (p ValuePoint) GetTime() int64 {
	return p.Time
}

type UpsertResult int

const (
	UpsertRejected UpsertResult = iota
	UpsertAppended
	UpsertReplaced
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertAppended:
		return "appended"
	case UpsertReplaced:
		return "replaced"
	}
	return "rejected"
}

// UpsertPoint replaces the last point when p has the same time, appends p when
// it is newer, and rejects it when it is older than the last point.
func UpsertPoint[P TimePoint](buf []P, p P) ([]P, UpsertResult, error) {
	n := len(buf)
	if n == 0 {
		return append(buf, p), UpsertAppended, nil
	}

	last := buf[n-1].GetTime()
	switch t := p.GetTime(); {
	case t == last:
		buf[n-1] = p
		return buf, UpsertReplaced, nil
	case t > last:
		return append(buf, p), UpsertAppended, nil
	default:
		return buf, UpsertRejected, errors.Wrapf(ErrOutOfOrderPoint, "point time %d < last time %d", t, last)
	}
}

// TrimHead drops the first n points, n is clamped to the buffer length.
func TrimHead[P any](buf []P, n int) []P {
	if n <= 0 {
		return buf
	}
	if n >= len(buf) {
		return buf[:0:0]
	}

	out := make([]P, len(buf)-n)
	copy(out, buf[n:])
	return out
}

// IsMeaningfulValue reports whether an indicator value should be plotted.
// Indicator producers emit zero or null while the indicator is warming up.
func IsMeaningfulValue(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// IndicatorValues holds the points of each named output of an indicator.
type IndicatorValues map[string][]ValuePoint

// Fields returns the output names in sorted order.
func (v IndicatorValues) Fields() []string {
	var fields []string
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v IndicatorValues) Len() (n int) {
	for _, points := range v {
		n += len(points)
	}
	return n
}

func (v IndicatorValues) Copy() IndicatorValues {
	out := make(IndicatorValues, len(v))
	for f, points := range v {
		out[f] = append([]ValuePoint(nil), points...)
	}
	return out
}
