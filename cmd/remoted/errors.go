package main

import "errors"

// Startup errors
var (
	ErrResolveHomeDir = errors.New("resolve home directory")
	ErrReadConfig     = errors.New("read config file")
	ErrOpenLogFile    = errors.New("open log file")
	ErrUnknownSink    = errors.New("unknown output sink")
	ErrListen         = errors.New("listen")
	ErrMetricsServe   = errors.New("serve metrics endpoint")
)
