// Package transfer implements the reliable byte-transfer primitives the rest
// of the agent is built on: loop-until-satisfied send/recv over a stream
// socket, with orderly peer close distinguished from a mid-frame error.
package transfer

import (
	"errors"
	"io"
	"net"

	"github.com/relaygrid/remoted/internal/errx"
)

var (
	// ErrPeerClosed means the peer closed the connection between frames —
	// zero bytes arrived and no partial buffer was read. Callers should
	// treat the connection as cleanly disconnected.
	ErrPeerClosed = errors.New("peer closed connection")

	// ErrShortRead means the peer closed or errored after delivering a
	// partial buffer. The stream can no longer be trusted to be aligned.
	ErrShortRead = errors.New("short read mid-frame")

	ErrShortWrite = errors.New("short write")
)

// SendAll writes every byte of b to conn, retrying partial writes.
func SendAll(conn net.Conn, b []byte) error {
	total := 0
	for total < len(b) {
		n, err := conn.Write(b[total:])
		if err != nil {
			return errx.Wrap(ErrShortWrite, err)
		}
		if n == 0 {
			return ErrShortWrite
		}
		total += n
	}
	return nil
}

// RecvAll reads exactly n bytes from conn, retrying partial reads.
//
// If the very first read returns zero bytes with io.EOF, that's an orderly
// peer close and RecvAll returns ErrPeerClosed. If a later read runs out of
// bytes mid-frame, that's a short read and RecvAll returns ErrShortRead —
// the stream can no longer be resynchronized.
func RecvAll(conn net.Conn, n int) ([]byte, error) {
	buf := make([]byte, n)
	total := 0
	for total < n {
		read, err := conn.Read(buf[total:])
		if read == 0 && err != nil {
			if total == 0 && errors.Is(err, io.EOF) {
				return nil, ErrPeerClosed
			}
			return buf[:total], errx.Wrap(ErrShortRead, err)
		}
		total += read
		if err != nil {
			if total < n {
				return buf[:total], errx.Wrap(ErrShortRead, err)
			}
		}
	}
	return buf, nil
}
