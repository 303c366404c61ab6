//go:build windows

package logsink

import "errors"

// NewSyslog is unavailable on Windows; there is no local syslog daemon.
func NewSyslog() (Sink, error) {
	return nil, errors.New("syslog sink is not supported on windows")
}
