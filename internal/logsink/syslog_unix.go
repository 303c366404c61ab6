//go:build !windows

package logsink

import "log/syslog"

type syslogSink struct {
	w *syslog.Writer
}

// NewSyslog opens a connection to the local syslog daemon.
func NewSyslog() (Sink, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, "remoted")
	if err != nil {
		return nil, err
	}
	return &syslogSink{w: w}, nil
}

func (s *syslogSink) Emit(level Level, msg string, fields ...any) {
	line := msg + formatFields(fields)
	switch {
	case level >= LevelError:
		s.w.Err(line)
	case level >= LevelWarn:
		s.w.Warning(line)
	case level >= LevelInfo:
		s.w.Info(line)
	default:
		s.w.Debug(line)
	}
}

func (s *syslogSink) Close() error {
	return s.w.Close()
}
