package wire

import (
	"encoding/binary"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaygrid/remoted/internal/transfer"
)

func pipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func TestHeaderRoundTrip(t *testing.T) {
	a, b := pipe(t)

	go func() { require.NoError(t, WriteHeader(a, CmdPeek)) }()

	hdr, err := ReadHeader(b)
	require.NoError(t, err)
	require.Equal(t, uint32(Magic), hdr.Magic)
	require.Equal(t, CmdPeek, hdr.CmdType)
}

func TestReadHeaderBadMagic(t *testing.T) {
	a, b := pipe(t)

	go func() {
		buf := []byte{0xEF, 0xBE, 0xAD, 0xDE, 0, 0, 0, 0}
		a.Write(buf)
	}()

	_, err := ReadHeader(b)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestWriteHandshakeShape(t *testing.T) {
	a, b := pipe(t)

	go func() { require.NoError(t, WriteHandshake(a, "Linux")) }()

	versionBuf, err := transfer.RecvAll(b, 4)
	require.NoError(t, err)
	require.Equal(t, ServerMagicVersion, binary.LittleEndian.Uint32(versionBuf))

	nameBuf, err := transfer.RecvAll(b, 256)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(nameBuf), "Linux"))
}

func TestExecRequestRoundTrip(t *testing.T) {
	a, b := pipe(t)
	req := ExecRequest{
		Background: true,
		Argv:       []string{"/bin/echo", "hi"},
		Envp:       nil,
	}

	go func() { require.NoError(t, EncodeExecRequest(a, req)) }()

	got, err := DecodeExecRequest(b)
	require.NoError(t, err)
	require.Equal(t, req.Background, got.Background)
	require.Equal(t, req.Argv, got.Argv)
	require.Empty(t, got.Envp)
}

func TestExecRequestArgcCapRejectsOversizedCount(t *testing.T) {
	a, b := pipe(t)

	go func() {
		buf := []byte{0} // background flag
		a.Write(buf)
		countBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(countBuf, MaxStringVectorCount+1)
		a.Write(countBuf)
	}()

	_, err := DecodeExecRequest(b)
	require.ErrorIs(t, err, ErrStringVectorTooLarge)
}

func TestCallRequestRoundTrip(t *testing.T) {
	a, b := pipe(t)
	req := CallRequest{Address: 0xdeadbeef, Argv: []uint64{1, 2, 3}}

	go func() { require.NoError(t, EncodeCallRequest(a, req)) }()

	got, err := DecodeCallRequest(b)
	require.NoError(t, err)
	require.Equal(t, req.Address, got.Address)
	require.Equal(t, req.Argv, got.Argv)
}

func TestPokeRequestRoundTrip(t *testing.T) {
	a, b := pipe(t)
	data := []byte{0x01, 0x02, 0x03, 0x04}

	go func() { require.NoError(t, EncodePokeRequest(a, 0x1000, uint64(len(data)), data)) }()

	hdr, err := DecodePokeHeader(b)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1000), hdr.Address)
	require.Equal(t, uint64(len(data)), hdr.Size)

	got, err := transfer.RecvAll(b, int(hdr.Size))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestDlopenRequestRoundTrip(t *testing.T) {
	a, b := pipe(t)
	req := DlopenRequest{Filename: "/lib/libc.so.6", Mode: 2}

	go func() { require.NoError(t, EncodeDlopenRequest(a, req)) }()

	got, err := DecodeDlopenRequest(b)
	require.NoError(t, err)
	require.Equal(t, req.Filename, got.Filename)
	require.Equal(t, req.Mode, got.Mode)
}
