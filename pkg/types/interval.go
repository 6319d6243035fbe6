package types

import (
	"encoding/json"
	"fmt"
	"time"
)

type Interval string

func (i Interval) Seconds() int {
	return SupportedIntervals[i]
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Seconds()) * time.Second
}

// Align floors the given unix seconds to the start of the interval bucket.
func (i Interval) Align(ts int64) int64 {
	s := int64(i.Seconds())
	if s <= 0 {
		return ts
	}
	return ts - ts%s
}

func (i *Interval) UnmarshalJSON(b []byte) (err error) {
	var a string
	err = json.Unmarshal(b, &a)
	if err != nil {
		return err
	}

	*i = Interval(a)
	return
}

func (i Interval) String() string {
	return string(i)
}

var Interval1s = Interval("1s")
var Interval1m = Interval("1m")
var Interval3m = Interval("3m")
var Interval5m = Interval("5m")
var Interval15m = Interval("15m")
var Interval30m = Interval("30m")
var Interval1h = Interval("1h")
var Interval2h = Interval("2h")
var Interval4h = Interval("4h")
var Interval6h = Interval("6h")
var Interval12h = Interval("12h")
var Interval1d = Interval("1d")
var Interval3d = Interval("3d")
var Interval1w = Interval("1w")

// SupportedIntervals maps each interval to its length in seconds
var SupportedIntervals = map[Interval]int{
	Interval1s:  1,
	Interval1m:  60,
	Interval3m:  60 * 3,
	Interval5m:  60 * 5,
	Interval15m: 60 * 15,
	Interval30m: 60 * 30,
	Interval1h:  60 * 60,
	Interval2h:  60 * 60 * 2,
	Interval4h:  60 * 60 * 4,
	Interval6h:  60 * 60 * 6,
	Interval12h: 60 * 60 * 12,
	Interval1d:  60 * 60 * 24,
	Interval3d:  60 * 60 * 24 * 3,
	Interval1w:  60 * 60 * 24 * 7,
}

func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if _, ok := SupportedIntervals[i]; !ok {
		return "", fmt.Errorf("unsupported interval: %q", s)
	}
	return i, nil
}
