//go:build linux || darwin

package handler

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaygrid/remoted/internal/transfer"
	"github.com/relaygrid/remoted/internal/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDlopenDlsymCallGetpid mirrors the dlsym-of-libc-symbol scenario: open
// the process image, resolve getpid, and call it with no arguments.
func TestDlopenDlsymCallGetpid(t *testing.T) {
	log := testLogger()
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	go func() { require.NoError(t, HandleDlopen(srv, log)) }()
	require.NoError(t, wire.EncodeDlopenRequest(cli, wire.DlopenRequest{Filename: "", Mode: 2}))
	lib, err := wire.ReadU64Reply(cli)
	require.NoError(t, err)
	require.NotZero(t, lib)

	go func() { require.NoError(t, HandleDlsym(srv, log)) }()
	require.NoError(t, wire.EncodeDlsymRequest(cli, wire.DlsymRequest{Lib: lib, Symbol: "getpid"}))
	addr, err := wire.ReadU64Reply(cli)
	require.NoError(t, err)
	require.NotZero(t, addr)

	go func() { require.NoError(t, HandleCall(srv, log)) }()
	require.NoError(t, wire.EncodeCallRequest(cli, wire.CallRequest{Address: addr}))
	result, err := wire.ReadCallResult(cli)
	require.NoError(t, err)
	require.Greater(t, result, int64(0))
}

// TestPeekPokeRoundTrip mirrors the malloc/poke/peek round-trip scenario:
// allocate via CALL, write bytes via POKE, and read them back via PEEK.
func TestPeekPokeRoundTrip(t *testing.T) {
	log := testLogger()
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	go func() { require.NoError(t, HandleDlopen(srv, log)) }()
	require.NoError(t, wire.EncodeDlopenRequest(cli, wire.DlopenRequest{Filename: "", Mode: 2}))
	lib, err := wire.ReadU64Reply(cli)
	require.NoError(t, err)

	go func() { require.NoError(t, HandleDlsym(srv, log)) }()
	require.NoError(t, wire.EncodeDlsymRequest(cli, wire.DlsymRequest{Lib: lib, Symbol: "malloc"}))
	mallocAddr, err := wire.ReadU64Reply(cli)
	require.NoError(t, err)
	require.NotZero(t, mallocAddr)

	go func() { require.NoError(t, HandleCall(srv, log)) }()
	require.NoError(t, wire.EncodeCallRequest(cli, wire.CallRequest{Address: mallocAddr, Argv: []uint64{64}}))
	ptr, err := wire.ReadCallResult(cli)
	require.NoError(t, err)
	require.NotZero(t, ptr)

	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	go func() { require.NoError(t, HandlePoke(srv, log)) }()
	require.NoError(t, wire.EncodePokeRequest(cli, uint64(ptr), uint64(len(payload)), payload))
	pokeHdr, err := wire.ReadHeader(cli)
	require.NoError(t, err)
	require.Equal(t, wire.CmdReplyPoke, pokeHdr.CmdType)

	go func() { require.NoError(t, HandlePeek(srv, log)) }()
	require.NoError(t, wire.EncodePeekRequest(cli, wire.PeekRequest{Address: uint64(ptr), Size: uint64(len(payload))}))
	peekHdr, err := wire.ReadHeader(cli)
	require.NoError(t, err)
	require.Equal(t, wire.CmdReplyPeek, peekHdr.CmdType)

	got, err := transfer.RecvAll(cli, len(payload))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
