package wire

import (
	"encoding/binary"
	"errors"
	"net"

	"github.com/relaygrid/remoted/internal/errx"
	"github.com/relaygrid/remoted/internal/transfer"
)

// maxCallArgc bounds how many argv words DecodeCallRequest will ever try to
// read off the wire. The gadget itself only honors argc in [0,11]; this is
// purely a guard against an announced argc large enough to force a huge
// allocation before that check ever runs.
const maxCallArgc = 1 << 16

var ErrArgcTooLarge = errors.New("call argc exceeds wire limit")

// CallRequest is {address: uint64, argc: uint64, argv: argc x uint64}.
// argc above the gadget's 11-argument bound still has its argv words
// consumed so the stream stays aligned — see internal/gadget.
type CallRequest struct {
	Address uint64
	Argv    []uint64
}

func DecodeCallRequest(conn net.Conn) (CallRequest, error) {
	var req CallRequest
	head, err := transfer.RecvAll(conn, 16)
	if err != nil {
		return req, err
	}
	req.Address = binary.LittleEndian.Uint64(head[:8])
	argc := binary.LittleEndian.Uint64(head[8:])

	if argc == 0 {
		return req, nil
	}
	if argc > maxCallArgc {
		return req, errx.With(ErrArgcTooLarge, ": %d", argc)
	}
	body, err := transfer.RecvAll(conn, int(argc)*8)
	if err != nil {
		return req, err
	}
	req.Argv = make([]uint64, argc)
	for i := range req.Argv {
		req.Argv[i] = binary.LittleEndian.Uint64(body[i*8:])
	}
	return req, nil
}

func EncodeCallRequest(conn net.Conn, req CallRequest) error {
	head := make([]byte, 16)
	binary.LittleEndian.PutUint64(head[:8], req.Address)
	binary.LittleEndian.PutUint64(head[8:], uint64(len(req.Argv)))
	if err := transfer.SendAll(conn, head); err != nil {
		return err
	}
	if len(req.Argv) == 0 {
		return nil
	}
	body := make([]byte, len(req.Argv)*8)
	for i, v := range req.Argv {
		binary.LittleEndian.PutUint64(body[i*8:], v)
	}
	return transfer.SendAll(conn, body)
}

// WriteCallResult writes CALL's signed 64-bit result.
func WriteCallResult(conn net.Conn, result int64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(result))
	return transfer.SendAll(conn, buf)
}

func ReadCallResult(conn net.Conn) (int64, error) {
	buf, err := transfer.RecvAll(conn, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf)), nil
}
