//go:build linux || darwin

package handler

import (
	"log/slog"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/relaygrid/remoted/internal/wire"
)

const pumpChunkSize = 64 * 1024

// runBackground spawns the child detached from any controlling terminal,
// with stdio wired to /dev/null and a new session so PTY control characters
// on the server's own terminal (if any) never reach it. A reap goroutine,
// supervised so its panic can't bring down the acceptor, prevents the child
// from becoming a zombie.
func runBackground(conn net.Conn, log *slog.Logger, req wire.ExecRequest) error {
	if len(req.Argv) == 0 {
		return wire.WriteExecPID(conn, wire.InvalidPID)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		log.Warn("exec background: open /dev/null failed", "err", err)
		return wire.WriteExecPID(conn, wire.InvalidPID)
	}
	defer devNull.Close()

	cmd := buildCmd(req)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		log.Warn("exec background: spawn failed", "argv", req.Argv, "err", err)
		return wire.WriteExecPID(conn, wire.InvalidPID)
	}

	pid := cmd.Process.Pid
	log.Debug("exec background: spawned", "pid", pid)

	execReaper.Go(func() {
		state, waitErr := cmd.Process.Wait()
		if waitErr != nil {
			log.Warn("exec background: reap failed", "pid", pid, "err", waitErr)
			return
		}
		log.Debug("exec background: reaped", "pid", pid, "exit_code", state.ExitCode())
	})

	return wire.WriteExecPID(conn, uint32(pid))
}

// runInteractive spawns the child attached to a fresh PTY and pumps bytes
// between the PTY master and the socket until the child's side of the PTY
// closes, at which point it reaps the child and emits the final EXITCODE
// chunk. No further protocol framing is read from the socket while the
// pump is active; every byte arriving on it is the child's stdin.
func runInteractive(conn net.Conn, log *slog.Logger, req wire.ExecRequest) error {
	if len(req.Argv) == 0 {
		return wire.WriteExecPID(conn, wire.InvalidPID)
	}

	cmd := buildCmd(req)

	master, err := pty.Start(cmd)
	if err != nil {
		log.Warn("exec interactive: spawn failed", "argv", req.Argv, "err", err)
		return wire.WriteExecPID(conn, wire.InvalidPID)
	}
	defer master.Close()

	pid := cmd.Process.Pid
	log.Debug("exec interactive: spawned", "pid", pid)
	if err := wire.WriteExecPID(conn, uint32(pid)); err != nil {
		return err
	}

	outDone := make(chan error, 1)
	inDone := make(chan struct{})
	go func() {
		pumpSocketToPTY(conn, master)
		close(inDone)
	}()
	go pumpPTYToSocket(conn, master, outDone)

	pumpErr := <-outDone

	// The child may have exited on its own (PTY master EOF) while
	// pumpSocketToPTY is still blocked in conn.Read, waiting for more
	// client input. The dispatcher is about to resume reading conn for
	// the next command, so that goroutine must be unblocked and joined
	// first — two readers on the same socket would corrupt framing.
	conn.SetReadDeadline(time.Now())
	<-inDone
	conn.SetReadDeadline(time.Time{})

	state, waitErr := cmd.Process.Wait()
	exitCode := int32(-1)
	switch {
	case waitErr != nil:
		log.Warn("exec interactive: reap failed", "pid", pid, "err", waitErr)
	default:
		exitCode = int32(state.Sys().(syscall.WaitStatus))
	}
	if pumpErr != nil {
		log.Debug("exec interactive: pump ended", "pid", pid, "err", pumpErr)
	}
	log.Debug("exec interactive: exited", "pid", pid, "exit_code", exitCode)

	return wire.WriteExitCodeChunk(conn, exitCode)
}

// pumpPTYToSocket copies PTY master output to the socket as STDOUT chunks
// until the master read hits EOF or errors, then signals outDone.
func pumpPTYToSocket(conn net.Conn, master *os.File, outDone chan<- error) {
	buf := make([]byte, pumpChunkSize)
	for {
		n, err := master.Read(buf)
		if n > 0 {
			if werr := wire.WriteExecChunk(conn, wire.ExecChunkStdout, buf[:n]); werr != nil {
				outDone <- werr
				return
			}
		}
		if err != nil {
			outDone <- nil
			return
		}
	}
}

// pumpSocketToPTY forwards raw socket bytes to the PTY master as the
// child's stdin. It exits silently on a zero-byte/error read; the
// interactive exec's lifetime is governed by pumpPTYToSocket, not this
// goroutine, since a client may keep its write side open indefinitely.
func pumpSocketToPTY(conn net.Conn, master *os.File) {
	buf := make([]byte, pumpChunkSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := master.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
