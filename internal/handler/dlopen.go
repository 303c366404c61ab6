package handler

import (
	"log/slog"
	"net"

	"github.com/relaygrid/remoted/internal/gadget"
	"github.com/relaygrid/remoted/internal/wire"
)

// HandleDlopen marshals one DLOPEN request to the platform's dynamic
// loader. The returned handle is whatever dlopen returns, conveyed as
// uint64 (0 on failure); DLOPEN never produces REPLY_ERROR.
func HandleDlopen(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodeDlopenRequest(conn)
	if err != nil {
		return err
	}
	handle := gadget.Dlopen(req.Filename, req.Mode)
	log.Debug("dlopen", "filename", req.Filename, "mode", req.Mode, "handle", handle)
	return wire.WriteU64Reply(conn, handle)
}

// HandleDlclose marshals one DLCLOSE request. DLCLOSE{lib: 0} is a
// documented no-op that must not corrupt subsequent commands.
func HandleDlclose(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodeDlcloseRequest(conn)
	if err != nil {
		return err
	}
	result := gadget.Dlclose(req.Lib)
	log.Debug("dlclose", "lib", req.Lib, "result", result)
	return wire.WriteU64Reply(conn, result)
}

// HandleDlsym marshals one DLSYM request. The returned address is 0 if the
// symbol wasn't found; DLSYM never produces REPLY_ERROR.
func HandleDlsym(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodeDlsymRequest(conn)
	if err != nil {
		return err
	}
	addr := gadget.Dlsym(req.Lib, req.Symbol)
	log.Debug("dlsym", "lib", req.Lib, "symbol", req.Symbol, "address", addr)
	return wire.WriteU64Reply(conn, addr)
}
