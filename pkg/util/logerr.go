package util

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// LogErr logs the error with the message and arguments if the error is not nil.
// It returns true if the error is not nil.
// Examples:
// LogErr(logger, err)
// LogErr(logger, err, "error message")
// LogErr(logger, err, "error message %s", "with argument")
func LogErr(logger logrus.FieldLogger, err error, msgAndArgs ...interface{}) bool {
	if err == nil {
		return false
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	entry := logger.WithError(err)
	switch len(msgAndArgs) {
	case 0:
		entry.Error(err.Error())
	case 1:
		entry.Error(msgAndArgs[0].(string))
	default:
		entry.Errorf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	return true
}

// WarnFirstLogger logs the first errors of a burst as warnings and the rest
// as errors, so a flapping feed does not flood the error level.
type WarnFirstLogger struct {
	logger      logrus.FieldLogger
	warnLimiter *rate.Limiter
}

func NewWarnFirstLogger(threshold int, window time.Duration, logger logrus.FieldLogger) *WarnFirstLogger {
	return &WarnFirstLogger{
		logger:      logger,
		warnLimiter: rate.NewLimiter(rate.Every(window), threshold),
	}
}

func (w *WarnFirstLogger) WarnOrError(err error, msg string, args ...interface{}) {
	log := w.logger
	if err != nil {
		log = log.WithError(err)
	}

	if w.warnLimiter.Allow() {
		log.Warnf(msg, args...)
	} else {
		log.Errorf(msg, args...)
	}
}
