package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/relaygrid/remoted/internal/errx"
	"github.com/relaygrid/remoted/internal/logsink"
)

var rootCmd = &cobra.Command{
	Use:   "remoted",
	Short: "Remote process/memory/dynamic-linker control agent",
	Long: `remoted listens on a TCP port and serves a small binary protocol for
spawning processes, peeking and poking its own memory, and invoking the
dynamic linker and arbitrary function addresses on the client's behalf.

There is no authentication and no encryption: bind it only where the
network path is already trusted.`,
	RunE: runServe,
}

func init() {
	rootCmd.Flags().Uint16P("port", "p", 5910, "TCP port to listen on")
	rootCmd.Flags().StringArrayP("output", "o", []string{"stdout"}, "log sink: stdout, syslog, file:<path>, or metrics:<addr> (repeatable)")

	viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.SetEnvPrefix("remoted")
	viper.BindEnv("port")
}

func initConfig() error {
	home, err := homedir.Dir()
	if err != nil {
		return errx.Wrap(ErrResolveHomeDir, err)
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(".remoted")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errx.Wrap(ErrReadConfig, err)
		}
	}
	return nil
}

// buildLogger constructs the fan-out logger from the -o/--output values.
// metrics:<addr> sinks are handled by the caller (they start an HTTP
// server rather than accepting log lines) and are skipped here.
func buildLogger(outputs []string) (*slog.Logger, func(), error) {
	var sinks []logsink.Sink
	for _, spec := range outputs {
		switch {
		case spec == "stdout":
			sinks = append(sinks, logsink.NewStdout())
		case spec == "syslog":
			s, err := logsink.NewSyslog()
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, s)
		case strings.HasPrefix(spec, "file:"):
			path := strings.TrimPrefix(spec, "file:")
			s, err := logsink.NewFile(path)
			if err != nil {
				return nil, nil, errx.With(ErrOpenLogFile, ": %s: %w", path, err)
			}
			sinks = append(sinks, s)
		case strings.HasPrefix(spec, "metrics:"):
			continue
		default:
			return nil, nil, errx.With(ErrUnknownSink, ": %q", spec)
		}
	}
	if len(sinks) == 0 {
		sinks = append(sinks, logsink.NewStdout())
	}

	multi := logsink.NewMultiSink(sinks...)
	logger := slog.New(logsink.NewHandler(multi))
	return logger, func() { multi.Close() }, nil
}

func metricsAddr(outputs []string) string {
	for _, spec := range outputs {
		if strings.HasPrefix(spec, "metrics:") {
			return strings.TrimPrefix(spec, "metrics:")
		}
	}
	return ""
}

func main() {
	if err := initConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
