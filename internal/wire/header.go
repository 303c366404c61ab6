package wire

import (
	"encoding/binary"
	"errors"
	"net"

	"github.com/relaygrid/remoted/internal/errx"
	"github.com/relaygrid/remoted/internal/transfer"
)

// ErrBadMagic means a frame header arrived with the wrong magic constant.
// Fatal to the connection.
var ErrBadMagic = errors.New("bad frame magic")

// Header is the 8-byte frame header present on every client→server frame
// and every server-emitted command reply (not on bulk data streams).
type Header struct {
	Magic   uint32
	CmdType CmdType
}

// ReadHeader reads and validates one frame header. A short/EOF read
// propagates transfer's sentinel (ErrPeerClosed / ErrShortRead) unchanged so
// the dispatcher can tell a clean disconnect from a protocol error.
func ReadHeader(conn net.Conn) (Header, error) {
	buf, err := transfer.RecvAll(conn, 8)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Magic:   binary.LittleEndian.Uint32(buf[0:4]),
		CmdType: CmdType(binary.LittleEndian.Uint32(buf[4:8])),
	}
	if h.Magic != Magic {
		return h, errx.Wrap(ErrBadMagic, err)
	}
	return h, nil
}

// WriteHeader writes one frame header. The server never emits a header with
// a magic other than Magic.
func WriteHeader(conn net.Conn, cmd CmdType) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(cmd))
	return transfer.SendAll(conn, buf)
}

// WriteHandshake emits the server magic version and the NUL-padded OS name,
// 4+256 bytes total, before the dispatcher accepts the first command.
func WriteHandshake(conn net.Conn, osName string) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, ServerMagicVersion)
	if err := transfer.SendAll(conn, buf); err != nil {
		return err
	}
	name := make([]byte, 256)
	copy(name, osName)
	return transfer.SendAll(conn, name)
}
