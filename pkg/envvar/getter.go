package envvar

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every variable name looked up by this package.
const Prefix = "CHARTSYNC_"

func lookup(n string) (string, bool) {
	return os.LookupEnv(Prefix + n)
}

func String(n string, args ...string) (string, bool) {
	defaultValue := ""
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok || len(str) == 0 {
		return defaultValue, false
	}

	return str, true
}

func Duration(n string, args ...time.Duration) (time.Duration, bool) {
	defaultValue := time.Duration(0)
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	du, err := time.ParseDuration(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as time.Duration, incorrect format", str)
		return defaultValue, false
	}

	return du, true
}

func Int(n string, args ...int) (int, bool) {
	defaultValue := 0
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	num, err := strconv.Atoi(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as int, incorrect format", str)
		return defaultValue, false
	}

	return num, true
}

func Uint64(n string, args ...uint64) (uint64, bool) {
	defaultValue := uint64(0)
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := lookup(n)
	if !ok {
		return defaultValue, false
	}

	num, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as uint64, incorrect format", str)
		return defaultValue, false
	}

	return num, true
}

// SetString, SetInt and SetDuration only touch v when the variable is set.

func SetString(n string, v *string) bool {
	s, ok := String(n)
	if ok {
		*v = s
	}
	return ok
}

func SetInt(n string, v *int) bool {
	i, ok := Int(n)
	if ok {
		*v = i
	}
	return ok
}

func SetDuration(n string, v *time.Duration) bool {
	d, ok := Duration(n)
	if ok {
		*v = d
	}
	return ok
}
