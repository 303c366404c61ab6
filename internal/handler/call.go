package handler

import (
	"errors"
	"log/slog"
	"net"

	"github.com/relaygrid/remoted/internal/gadget"
	"github.com/relaygrid/remoted/internal/wire"
)

// HandleCall reads address, argc and argc argument words, and (for
// argc in [0,11]) invokes the gadget, replying with a signed 64-bit
// result. For argc outside that range no call happens, but the argv
// bytes have already been consumed off the wire by the decoder, so the
// stream remains aligned — the reply is still a CALL result of 0, per
// the design's "behavior is unspecified, but stream must remain
// aligned" rule.
func HandleCall(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodeCallRequest(conn)
	if err != nil {
		return err
	}

	result, err := gadget.Call(req.Address, req.Argv)
	if err != nil && !errors.Is(err, gadget.ErrArityOutOfRange) {
		return err
	}
	if errors.Is(err, gadget.ErrArityOutOfRange) {
		log.Warn("call argc out of range, no call made", "argc", len(req.Argv), "address", req.Address)
		result = 0
	}

	log.Debug("call", "address", req.Address, "argc", len(req.Argv), "result", result)
	return wire.WriteCallResult(conn, result)
}
