package wire

import (
	"encoding/binary"
	"net"

	"github.com/relaygrid/remoted/internal/transfer"
)

// PeekRequest is {address: uint64, size: uint64}.
type PeekRequest struct {
	Address uint64
	Size    uint64
}

func DecodePeekRequest(conn net.Conn) (PeekRequest, error) {
	buf, err := transfer.RecvAll(conn, 16)
	if err != nil {
		return PeekRequest{}, err
	}
	return PeekRequest{
		Address: binary.LittleEndian.Uint64(buf[:8]),
		Size:    binary.LittleEndian.Uint64(buf[8:]),
	}, nil
}

func EncodePeekRequest(conn net.Conn, req PeekRequest) error {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], req.Address)
	binary.LittleEndian.PutUint64(buf[8:], req.Size)
	return transfer.SendAll(conn, buf)
}

// PokeHeader is the fixed {address: uint64, size: uint64} part of a POKE
// request, which is followed by size bytes of data. Decode reads only this
// header; the handler streams the data itself so it can cap the transfer
// before committing to an allocation.
type PokeHeader struct {
	Address uint64
	Size    uint64
}

func DecodePokeHeader(conn net.Conn) (PokeHeader, error) {
	buf, err := transfer.RecvAll(conn, 16)
	if err != nil {
		return PokeHeader{}, err
	}
	return PokeHeader{
		Address: binary.LittleEndian.Uint64(buf[:8]),
		Size:    binary.LittleEndian.Uint64(buf[8:]),
	}, nil
}

func EncodePokeRequest(conn net.Conn, addr, size uint64, data []byte) error {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], addr)
	binary.LittleEndian.PutUint64(buf[8:], size)
	if err := transfer.SendAll(conn, buf); err != nil {
		return err
	}
	return transfer.SendAll(conn, data)
}

// WriteDummyBlockReply writes GET_DUMMY_BLOCK's uint64 address reply.
func WriteDummyBlockReply(conn net.Conn, addr uint64) error {
	return WriteU64Reply(conn, addr)
}
