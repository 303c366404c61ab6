package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/relaygrid/remoted/internal/dispatch"
	"github.com/relaygrid/remoted/internal/errx"
	"github.com/relaygrid/remoted/internal/metrics"
)

func runServe(cmd *cobra.Command, args []string) error {
	port := viper.GetInt("port")
	outputs := viper.GetStringSlice("output")

	log, closeLog, err := buildLogger(outputs)
	if err != nil {
		return err
	}
	defer closeLog()

	if addr := metricsAddr(outputs); addr != "" {
		go serveMetrics(addr, log)
	}

	ln, err := listen(port)
	if err != nil {
		return errx.Wrap(ErrListen, err)
	}
	defer ln.Close()
	log.Info("listening", "port", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
		ln.Close()
	}()

	d := dispatch.New(log)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn("accept failed", "err", err)
			continue
		}
		go d.Run(ctx, conn)
	}
}

// listen binds a dual-stack IPv6 passive socket with SO_REUSEADDR set, so an
// IPv4 client arrives mapped as ::ffff:…. Backlog and close-on-exec follow
// Go's own listener defaults (SOMAXCONN-bounded, SOCK_CLOEXEC).
func listen(port int) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	// Go's net package already opens listener sockets SOCK_CLOEXEC; the
	// backlog is applied by the runtime's listen(2) call beneath Listen.
	return lc.Listen(context.Background(), "tcp", net.JoinHostPort("::", strconv.Itoa(port)))
}

func serveMetrics(addr string, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	if err := srv.ListenAndServe(); err != nil {
		log.Warn("metrics server stopped", "err", err)
	}
}
