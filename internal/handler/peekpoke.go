package handler

import (
	"log/slog"
	"net"

	"github.com/relaygrid/remoted/internal/gadget"
	"github.com/relaygrid/remoted/internal/metrics"
	"github.com/relaygrid/remoted/internal/wire"
)

// HandlePeek reads {address, size}. On a platform with a kernel-assisted
// probe, it validates the range first and replies REPLY_ERROR on failure
// without sending any data. Otherwise (or on success) it replies
// REPLY_PEEK followed by exactly size bytes read from address. A fault on
// a no-probe platform terminates the process — outside this function's
// control, per the design.
func HandlePeek(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodePeekRequest(conn)
	if err != nil {
		return err
	}

	if req.Size > MaxTransferBytes {
		log.Warn("peek size exceeds cap", "size", humanSize(req.Size), "cap", humanSize(MaxTransferBytes))
		return replyError(conn)
	}

	data, ok := gadget.Peek(req.Address, req.Size)
	if !ok {
		log.Debug("peek rejected by probe", "address", req.Address, "size", req.Size)
		return replyError(conn)
	}

	log.Debug("peek", "address", req.Address, "size", humanSize(req.Size))
	metrics.PeekBytesTotal.Add(float64(len(data)))

	if err := wire.WriteHeader(conn, wire.CmdReplyPeek); err != nil {
		return err
	}
	return sendAll(conn, data)
}

// HandlePoke reads {address, size, data}, capping size at MaxTransferBytes
// before allocating a transient buffer. On a platform with a probe, it
// replies REPLY_POKE/REPLY_ERROR per the write's success; otherwise the
// write is unconditional and REPLY_POKE is always sent.
func HandlePoke(conn net.Conn, log *slog.Logger) error {
	hdr, err := wire.DecodePokeHeader(conn)
	if err != nil {
		return err
	}

	if hdr.Size > MaxTransferBytes {
		log.Warn("poke size exceeds cap", "size", humanSize(hdr.Size), "cap", humanSize(MaxTransferBytes))
		return drainAndReplyError(conn, hdr.Size)
	}

	data, err := recvAll(conn, int(hdr.Size))
	if err != nil {
		return err
	}

	ok := gadget.Poke(hdr.Address, data)
	log.Debug("poke", "address", hdr.Address, "size", humanSize(hdr.Size), "ok", ok)
	if !ok {
		return wire.WriteHeader(conn, wire.CmdReplyError)
	}

	metrics.PokeBytesTotal.Add(float64(len(data)))
	return wire.WriteHeader(conn, wire.CmdReplyPoke)
}

// HandleGetDummyBlock has no request payload; it replies with the address
// of a stable, process-resident value (0 where the platform has no such
// concept).
func HandleGetDummyBlock(conn net.Conn, log *slog.Logger) error {
	addr := gadget.DummyBlock()
	log.Debug("get_dummy_block", "address", addr)
	return wire.WriteDummyBlockReply(conn, addr)
}

func replyError(conn net.Conn) error {
	return wire.WriteHeader(conn, wire.CmdReplyError)
}

// drainAndReplyError consumes size bytes the client already announced it
// would send (so the stream stays aligned) before replying REPLY_ERROR.
func drainAndReplyError(conn net.Conn, size uint64) error {
	const chunk = 64 * 1024
	remaining := size
	buf := make([]byte, chunk)
	for remaining > 0 {
		n := uint64(len(buf))
		if remaining < n {
			n = remaining
		}
		if _, err := recvAllInto(conn, buf[:n]); err != nil {
			return err
		}
		remaining -= n
	}
	return replyError(conn)
}
