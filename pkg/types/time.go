package types

import (
	"strconv"
	"time"
)

var numOfDigitsOfUnixTimestamp = len(strconv.FormatInt(time.Now().Unix(), 10))
var numOfDigitsOfMilliSecondUnixTimestamp = len(strconv.FormatInt(time.Now().UnixNano()/int64(time.Millisecond), 10))
var numOfDigitsOfMicroSecondUnixTimestamp = len(strconv.FormatInt(time.Now().UnixNano()/int64(time.Microsecond), 10))

// AlignTime converts a unix timestamp in seconds, milliseconds, microseconds
// or nanoseconds into the chart-native unit: UTC seconds.
// The unit is detected from the number of digits.
func AlignTime(ts int64) int64 {
	if ts < 0 {
		return ts
	}

	n := len(strconv.FormatInt(ts, 10))
	switch {
	case n <= numOfDigitsOfUnixTimestamp:
		return ts
	case n <= numOfDigitsOfMilliSecondUnixTimestamp:
		return ts / 1e3
	case n <= numOfDigitsOfMicroSecondUnixTimestamp:
		return ts / 1e6
	default:
		return ts / 1e9
	}
}

// LogicalRange is the visible range of the chart expressed in bar indexes.
type LogicalRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}
