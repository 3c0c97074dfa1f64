package config

import (
	"errors"
)

// Sentinel kinds for configuration errors, matched with errors.Is by callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
