package wire

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/relaygrid/remoted/internal/transfer"
)

// DlopenRequest is {filename: fixed 1024-byte NUL-padded string, mode: uint32}.
type DlopenRequest struct {
	Filename string
	Mode     uint32
}

func DecodeDlopenRequest(conn net.Conn) (DlopenRequest, error) {
	var req DlopenRequest
	buf, err := transfer.RecvAll(conn, MaxPathLen+4)
	if err != nil {
		return req, err
	}
	req.Filename = nulTerminated(buf[:MaxPathLen])
	req.Mode = binary.LittleEndian.Uint32(buf[MaxPathLen:])
	return req, nil
}

func EncodeDlopenRequest(conn net.Conn, req DlopenRequest) error {
	buf := make([]byte, MaxPathLen+4)
	copy(buf, req.Filename)
	binary.LittleEndian.PutUint32(buf[MaxPathLen:], req.Mode)
	return transfer.SendAll(conn, buf)
}

// DlcloseRequest is {lib: uint64}.
type DlcloseRequest struct {
	Lib uint64
}

func DecodeDlcloseRequest(conn net.Conn) (DlcloseRequest, error) {
	buf, err := transfer.RecvAll(conn, 8)
	if err != nil {
		return DlcloseRequest{}, err
	}
	return DlcloseRequest{Lib: binary.LittleEndian.Uint64(buf)}, nil
}

func EncodeDlcloseRequest(conn net.Conn, req DlcloseRequest) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, req.Lib)
	return transfer.SendAll(conn, buf)
}

// DlsymRequest is {lib: uint64, symbol: fixed 1024-byte NUL-padded string}.
type DlsymRequest struct {
	Lib    uint64
	Symbol string
}

func DecodeDlsymRequest(conn net.Conn) (DlsymRequest, error) {
	var req DlsymRequest
	buf, err := transfer.RecvAll(conn, 8+MaxPathLen)
	if err != nil {
		return req, err
	}
	req.Lib = binary.LittleEndian.Uint64(buf[:8])
	req.Symbol = nulTerminated(buf[8:])
	return req, nil
}

func EncodeDlsymRequest(conn net.Conn, req DlsymRequest) error {
	buf := make([]byte, 8+MaxPathLen)
	binary.LittleEndian.PutUint64(buf[:8], req.Lib)
	copy(buf[8:], req.Symbol)
	return transfer.SendAll(conn, buf)
}

// WriteU64Reply writes a bare little-endian uint64 — the reply shape shared
// by DLOPEN (handle), DLCLOSE (result) and DLSYM (address).
func WriteU64Reply(conn net.Conn, v uint64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return transfer.SendAll(conn, buf)
}

func ReadU64Reply(conn net.Conn) (uint64, error) {
	buf, err := transfer.RecvAll(conn, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func nulTerminated(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
