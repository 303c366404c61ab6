// Package handler implements the command handlers the dispatcher routes
// frames to: EXEC, the dlopen family, the CALL gadget, PEEK/POKE, and
// GET_DUMMY_BLOCK. Each handler fully owns reading its payload and writing
// its reply; a handler returning an error means the byte stream can no
// longer be trusted to be aligned, and the dispatcher closes the connection.
package handler

import (
	"log/slog"
	"net"

	"github.com/dustin/go-humanize"

	"github.com/relaygrid/remoted/internal/transfer"
)

// MaxTransferBytes caps a single PEEK/POKE transfer. Requests above this
// get REPLY_ERROR without the handler touching memory or allocating a
// buffer for the request.
var MaxTransferBytes uint64 = 64 * 1024 * 1024

// Func is the shape every command handler satisfies: read payload from
// conn, produce the reply (or an in-band REPLY_ERROR), and report whether
// the connection's byte stream is still aligned.
type Func func(conn net.Conn, log *slog.Logger) error

// Set is the full table of command handlers the dispatcher routes to.
type Set struct {
	Exec     Func
	Dlopen   Func
	Dlclose  Func
	Dlsym    Func
	Call     Func
	Peek     Func
	Poke     Func
	GetDummy Func
}

// NewSet builds the default handler table.
func NewSet() Set {
	return Set{
		Exec:     HandleExec,
		Dlopen:   HandleDlopen,
		Dlclose:  HandleDlclose,
		Dlsym:    HandleDlsym,
		Call:     HandleCall,
		Peek:     HandlePeek,
		Poke:     HandlePoke,
		GetDummy: HandleGetDummyBlock,
	}
}

func humanSize(n uint64) string {
	return humanize.Bytes(n)
}

func sendAll(conn net.Conn, b []byte) error {
	return transfer.SendAll(conn, b)
}

func recvAll(conn net.Conn, n int) ([]byte, error) {
	return transfer.RecvAll(conn, n)
}

// recvAllInto fills buf entirely by receiving len(buf) bytes and copying
// them in — used to drain oversized POKE payloads one chunk at a time
// without holding the whole rejected transfer in memory at once.
func recvAllInto(conn net.Conn, buf []byte) (int, error) {
	b, err := transfer.RecvAll(conn, len(buf))
	if err != nil {
		return 0, err
	}
	copy(buf, b)
	return len(buf), nil
}
