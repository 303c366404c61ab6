package handler

import (
	"log/slog"
	"net"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc"

	"github.com/relaygrid/remoted/internal/metrics"
	"github.com/relaygrid/remoted/internal/wire"
)

// execReaper supervises backgrounded children's reap goroutines so that a
// panic while waiting on one process cannot take the acceptor down with it.
var execReaper conc.WaitGroup

// HandleExec reads the EXEC payload and dispatches to the background or
// interactive spawn path. Both paths own the full lifetime of the child
// process they create; HandleExec itself only decides which one applies.
func HandleExec(conn net.Conn, log *slog.Logger) error {
	req, err := wire.DecodeExecRequest(conn)
	if err != nil {
		return err
	}

	mode := "interactive"
	if req.Background {
		mode = "background"
	}
	metrics.ExecSessionsTotal.WithLabelValues(mode).Inc()
	log.Info("exec", "mode", mode, "argv", shellquote.Join(req.Argv...), "envc", len(req.Envp))

	if req.Background {
		return runBackground(conn, log, req)
	}
	return runInteractive(conn, log, req)
}

func buildCmd(req wire.ExecRequest) *exec.Cmd {
	var cmd *exec.Cmd
	if len(req.Argv) == 1 {
		cmd = exec.Command(req.Argv[0])
	} else {
		cmd = exec.Command(req.Argv[0], req.Argv[1:]...)
	}
	if len(req.Envp) > 0 {
		cmd.Env = req.Envp
	}
	return cmd
}
