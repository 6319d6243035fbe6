package engine

import "github.com/pkg/errors"

// ErrConfigMissing is returned when a chart instance is requested for the
// first time without a chart config.
var ErrConfigMissing = errors.New("chart config is required to create a chart instance")

// ErrEngineClosed is returned by the operations of a removed chart instance.
var ErrEngineClosed = errors.New("chart engine is closed")
