package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/relaygrid/remoted/internal/errx"
	"github.com/relaygrid/remoted/internal/transfer"
)

var ErrStringTooLong = errors.New("length-prefixed string exceeds limit")
var ErrStringVectorTooLarge = errors.New("argv/envp count exceeds wire limit")

// ExecRequest is the EXEC command payload: background/interactive mode flag,
// argv, and an optional envp (empty means "inherit the server's environment").
type ExecRequest struct {
	Background bool
	Argv       []string
	Envp       []string
}

func (r ExecRequest) String() string {
	return fmt.Sprintf("argv=%v background=%v envc=%d", r.Argv, r.Background, len(r.Envp))
}

// DecodeExecRequest reads an EXEC payload per the wire format: 1 byte
// background flag, then argc + argc length-prefixed strings, then envc +
// envc length-prefixed strings.
func DecodeExecRequest(conn net.Conn) (ExecRequest, error) {
	var req ExecRequest

	flag, err := transfer.RecvAll(conn, 1)
	if err != nil {
		return req, err
	}
	req.Background = flag[0] != 0

	argv, err := readStringVector(conn)
	if err != nil {
		return req, err
	}
	req.Argv = argv

	envp, err := readStringVector(conn)
	if err != nil {
		return req, err
	}
	req.Envp = envp

	return req, nil
}

// EncodeExecRequest writes an EXEC payload; used by test clients and by
// anything driving the agent programmatically.
func EncodeExecRequest(conn net.Conn, req ExecRequest) error {
	flag := byte(0)
	if req.Background {
		flag = 1
	}
	if err := transfer.SendAll(conn, []byte{flag}); err != nil {
		return err
	}
	if err := writeStringVector(conn, req.Argv); err != nil {
		return err
	}
	return writeStringVector(conn, req.Envp)
}

func readStringVector(conn net.Conn) ([]string, error) {
	countBuf, err := transfer.RecvAll(conn, 4)
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBuf)
	if count > MaxStringVectorCount {
		return nil, errx.With(ErrStringVectorTooLarge, ": %d entries", count)
	}

	out := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		lenBuf, err := transfer.RecvAll(conn, 4)
		if err != nil {
			return nil, err
		}
		strLen := binary.LittleEndian.Uint32(lenBuf)
		if strLen > FixedStringsMax {
			return nil, errx.With(ErrStringTooLong, ": %d bytes", strLen)
		}
		data, err := transfer.RecvAll(conn, int(strLen))
		if err != nil {
			return nil, err
		}
		out = append(out, string(data))
	}
	return out, nil
}

func writeStringVector(conn net.Conn, vec []string) error {
	countBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(countBuf, uint32(len(vec)))
	if err := transfer.SendAll(conn, countBuf); err != nil {
		return err
	}
	for _, s := range vec {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(s)))
		if err := transfer.SendAll(conn, lenBuf); err != nil {
			return err
		}
		if err := transfer.SendAll(conn, []byte(s)); err != nil {
			return err
		}
	}
	return nil
}

// WriteExecPID writes the EXEC response PID (or InvalidPID on spawn failure).
func WriteExecPID(conn net.Conn, pid uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, pid)
	return transfer.SendAll(conn, buf)
}

// ReadExecPID reads the EXEC response PID.
func ReadExecPID(conn net.Conn) (uint32, error) {
	buf, err := transfer.RecvAll(conn, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// WriteExecChunk writes one chunk of an interactive EXEC's output stream:
// STDOUT carries raw bytes, EXITCODE carries a signed 32-bit waitpid-style
// status.
func WriteExecChunk(conn net.Conn, typ ExecChunkType, payload []byte) error {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], uint32(typ))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	if err := transfer.SendAll(conn, header); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	return transfer.SendAll(conn, payload)
}

// WriteExitCodeChunk is WriteExecChunk specialized for the final EXITCODE
// chunk, encoding status as a signed 32-bit little-endian value.
func WriteExitCodeChunk(conn net.Conn, status int32) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(status))
	return WriteExecChunk(conn, ExecChunkExitCode, payload)
}

// ReadExecChunk reads one chunk header+payload; used by test clients.
func ReadExecChunk(conn net.Conn) (ExecChunkType, []byte, error) {
	header, err := transfer.RecvAll(conn, 8)
	if err != nil {
		return 0, nil, err
	}
	typ := ExecChunkType(binary.LittleEndian.Uint32(header[0:4]))
	size := binary.LittleEndian.Uint32(header[4:8])
	if size == 0 {
		return typ, nil, nil
	}
	payload, err := transfer.RecvAll(conn, int(size))
	return typ, payload, err
}
