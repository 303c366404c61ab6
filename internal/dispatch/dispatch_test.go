package dispatch

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaygrid/remoted/internal/transfer"
	"github.com/relaygrid/remoted/internal/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestHandshakeShape covers S1: the client reads the server magic version
// then a 256-byte NUL-padded OS name before any command is accepted.
func TestHandshakeShape(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	d := New(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, srv)

	versionBuf, err := transfer.RecvAll(cli, 4)
	require.NoError(t, err)
	require.Equal(t, wire.ServerMagicVersion, binary.LittleEndian.Uint32(versionBuf))

	nameBuf, err := transfer.RecvAll(cli, 256)
	require.NoError(t, err)
	name := strings.TrimRight(string(nameBuf), "\x00")
	require.NotEmpty(t, name)
}

// TestBadMagicClosesConnection covers S6: a header with the wrong magic
// closes the connection with no reply bytes.
func TestBadMagicClosesConnection(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	d := New(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, srv)

	_, err := transfer.RecvAll(cli, 4+256)
	require.NoError(t, err)

	badHeader := make([]byte, 8)
	binary.LittleEndian.PutUint32(badHeader[0:4], 0xDEADBEEF)
	binary.LittleEndian.PutUint32(badHeader[4:8], uint32(wire.CmdExec))
	_, writeErr := cli.Write(badHeader)
	require.NoError(t, writeErr)

	cli.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = cli.Read(buf)
	require.ErrorIs(t, err, io.EOF)
}

// TestUnknownCommandClosesConnection exercises the §9 hardening: a tag
// outside the known set closes the connection rather than being skipped.
func TestUnknownCommandClosesConnection(t *testing.T) {
	srv, cli := net.Pipe()
	defer cli.Close()

	d := New(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, srv)

	_, err := transfer.RecvAll(cli, 4+256)
	require.NoError(t, err)

	unknown := make([]byte, 8)
	binary.LittleEndian.PutUint32(unknown[0:4], wire.Magic)
	binary.LittleEndian.PutUint32(unknown[4:8], 999)
	_, writeErr := cli.Write(unknown)
	require.NoError(t, writeErr)

	cli.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err = cli.Read(buf)
	require.ErrorIs(t, err, io.EOF)
}
