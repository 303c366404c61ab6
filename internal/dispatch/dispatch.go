// Package dispatch drives one accepted connection end to end: emit the
// handshake, then loop reading frame headers and routing each to its
// command handler until the connection closes.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/higebu/netfd"
	"github.com/rs/xid"

	"github.com/relaygrid/remoted/internal/handler"
	"github.com/relaygrid/remoted/internal/metrics"
	"github.com/relaygrid/remoted/internal/transfer"
	"github.com/relaygrid/remoted/internal/wire"
)

// state is the per-connection dispatcher state. InExec is named for
// clarity and logging only; the loop never switches to it, because control
// is handed entirely to the exec handler while it runs.
type state int

const (
	stateReady state = iota
	stateInExec
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateReady:
		return "READY"
	case stateInExec:
		return "IN_EXEC"
	default:
		return "CLOSED"
	}
}

// Dispatcher owns one connection's lifecycle: handshake, then the
// read-header/route/repeat loop until CLOSE, disconnect, or an
// unrecoverable error.
type Dispatcher struct {
	handlers handler.Set
	log      *slog.Logger
}

// New builds a Dispatcher with the default handler table.
func New(log *slog.Logger) *Dispatcher {
	return &Dispatcher{handlers: handler.NewSet(), log: log}
}

// Run emits the handshake and drives the command loop for one connection.
// It returns once the connection is closed, by either side.
func (d *Dispatcher) Run(ctx context.Context, conn net.Conn) {
	connID := uuid.New().String()
	log := d.log.With("conn_id", connID, "remote_addr", conn.RemoteAddr().String(), "fd", connFd(conn))

	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()
	defer conn.Close()

	if err := wire.WriteHandshake(conn, osDisplayName()); err != nil {
		log.Warn("handshake failed", "err", err)
		return
	}
	log.Info("connection accepted")

	st := stateReady
	for st == stateReady {
		select {
		case <-ctx.Done():
			log.Info("connection closing", "reason", "server shutdown")
			return
		default:
		}

		st = d.step(conn, log)
	}

	log.Info("connection closed")
}

// step reads and routes exactly one command frame, returning the
// dispatcher's next state.
func (d *Dispatcher) step(conn net.Conn, log *slog.Logger) state {
	hdr, err := wire.ReadHeader(conn)
	if err != nil {
		if errors.Is(err, transfer.ErrPeerClosed) {
			log.Debug("peer disconnected")
		} else if errors.Is(err, wire.ErrBadMagic) {
			log.Warn("bad frame magic, closing connection")
		} else {
			log.Warn("header read failed", "err", err)
		}
		return stateClosed
	}

	cmdID := xid.New().String()
	clog := log.With("cmd_id", cmdID, "cmd", hdr.CmdType.String())
	metrics.CommandsTotal.WithLabelValues(hdr.CmdType.String()).Inc()

	fn, isExec, ok := d.route(hdr.CmdType)
	if !ok {
		// Unrecognized tag: the dispatcher cannot know whether this frame
		// carried a payload, so it can't safely read past it. Closing is
		// the only alignment-preserving option.
		clog.Warn("unknown command tag, closing connection", "raw_cmd_type", uint32(hdr.CmdType))
		return stateClosed
	}

	if isExec {
		clog.Debug("entering IN_EXEC")
	}

	if err := fn(conn, clog); err != nil {
		if errors.Is(err, transfer.ErrPeerClosed) || errors.Is(err, transfer.ErrShortRead) {
			clog.Debug("command ended connection", "err", err)
		} else {
			clog.Warn("command failed, closing connection", "err", err)
		}
		return stateClosed
	}

	if hdr.CmdType == wire.CmdClose {
		clog.Debug("close command received")
		return stateClosed
	}

	return stateReady
}

// route maps a command tag to its handler. CLOSE has no handler of its own;
// step handles it directly after a no-op dispatch.
func (d *Dispatcher) route(cmd wire.CmdType) (fn handler.Func, isExec bool, ok bool) {
	switch cmd {
	case wire.CmdExec:
		return d.handlers.Exec, true, true
	case wire.CmdDlopen:
		return d.handlers.Dlopen, false, true
	case wire.CmdDlclose:
		return d.handlers.Dlclose, false, true
	case wire.CmdDlsym:
		return d.handlers.Dlsym, false, true
	case wire.CmdCall:
		return d.handlers.Call, false, true
	case wire.CmdPeek:
		return d.handlers.Peek, false, true
	case wire.CmdPoke:
		return d.handlers.Poke, false, true
	case wire.CmdGetDummyBlock:
		return d.handlers.GetDummy, false, true
	case wire.CmdClose:
		return func(net.Conn, *slog.Logger) error { return nil }, false, true
	default:
		return nil, false, false
	}
}

// connFd returns the raw file descriptor backing conn, for diagnostic
// logging only; -1 if it can't be recovered (e.g. not a *net.TCPConn).
func connFd(conn net.Conn) int {
	if _, ok := conn.(*net.TCPConn); !ok {
		return -1
	}
	fd := netfd.GetFdFromConn(conn)
	if fd == 0 {
		return -1
	}
	return fd
}

// osDisplayName title-cases runtime.GOOS to match what real clients expect
// from the handshake ("Linux", "Darwin"), not Go's lowercase GOOS value.
func osDisplayName() string {
	name := runtime.GOOS
	if name == "" {
		return "Unknown"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
