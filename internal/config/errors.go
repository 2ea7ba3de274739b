package config

import "errors"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config")
	ErrEnvInvalid         = errors.New("invalid environment variable")
	ErrDotEnvInvalid      = errors.New("invalid .env file")
	ErrCapacityInvalid    = errors.New("capacity must be at least 1")
	ErrFormatInvalid      = errors.New("format must be text or json")
	ErrLogLevelInvalid    = errors.New("unknown log_level")
)
