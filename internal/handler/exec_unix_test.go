//go:build linux || darwin

package handler

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaygrid/remoted/internal/wire"
)

// TestExecBackgroundEcho mirrors the background echo scenario: the server
// replies with a real PID immediately and the connection is free to issue
// further commands without waiting on the child.
func TestExecBackgroundEcho(t *testing.T) {
	log := testLogger()
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	go func() { require.NoError(t, HandleExec(srv, log)) }()

	req := wire.ExecRequest{Background: true, Argv: []string{"/bin/echo", "hi"}}
	require.NoError(t, wire.EncodeExecRequest(cli, req))

	pid, err := wire.ReadExecPID(cli)
	require.NoError(t, err)
	require.NotEqual(t, wire.InvalidPID, pid)
}

// TestExecInteractiveCat mirrors the interactive cat scenario: stdin written
// to the socket comes back out as a STDOUT chunk, and sending EOF (Ctrl-D)
// makes cat exit, which yields a final EXITCODE chunk.
func TestExecInteractiveCat(t *testing.T) {
	log := testLogger()
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	done := make(chan error, 1)
	go func() { done <- HandleExec(srv, log) }()

	req := wire.ExecRequest{Background: false, Argv: []string{"cat"}}
	require.NoError(t, wire.EncodeExecRequest(cli, req))

	pid, err := wire.ReadExecPID(cli)
	require.NoError(t, err)
	require.NotEqual(t, wire.InvalidPID, pid)

	const line = "hello from the pipe\n"
	n, err := cli.Write([]byte(line))
	require.NoError(t, err)
	require.Equal(t, len(line), n)

	// The PTY runs in canonical mode, so the driver echoes the typed line
	// before cat ever reads it; collect chunks until the line has shown up
	// at least once, then send EOF (Ctrl-D) to make cat exit.
	var seen string
	sentEOF := false
	var exitCode int32 = -1
	for {
		typ, payload, err := wire.ReadExecChunk(cli)
		require.NoError(t, err)
		if typ == wire.ExecChunkExitCode {
			exitCode = int32(payload[0]) | int32(payload[1])<<8 | int32(payload[2])<<16 | int32(payload[3])<<24
			break
		}
		require.Equal(t, wire.ExecChunkStdout, typ)
		seen += string(payload)
		if !sentEOF && len(seen) >= len(line) {
			_, werr := cli.Write([]byte{0x04})
			require.NoError(t, werr)
			sentEOF = true
		}
	}

	require.Contains(t, seen, "hello from the pipe")
	require.Equal(t, int32(0), exitCode)
	require.NoError(t, <-done)
}
