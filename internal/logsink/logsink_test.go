package logsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	calls []string
}

func (f *fakeSink) Emit(level Level, msg string, fields ...any) {
	f.calls = append(f.calls, msg)
}

func (f *fakeSink) Close() error { return nil }

func TestMultiSinkFanOut(t *testing.T) {
	a := &fakeSink{}
	b := &fakeSink{}
	multi := NewMultiSink(a, b)

	multi.Emit(LevelInfo, "connection accepted", "conn_id", "abc")

	require.Equal(t, []string{"connection accepted"}, a.calls)
	require.Equal(t, []string{"connection accepted"}, b.calls)
}

func TestMultiSinkCloseWithoutErrors(t *testing.T) {
	a := &fakeSink{}
	multi := NewMultiSink(a)
	require.NoError(t, multi.Close())
}

func TestNewFileAppendsAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remoted.log")

	sink, err := NewFile(path)
	require.NoError(t, err)
	sink.Emit(LevelWarn, "peek size exceeds cap", "size", "128MiB")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "peek size exceeds cap")
}
