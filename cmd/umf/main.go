// Package main implements umf, a command-line tool for building, checking
// and converting UMF messages and for inspecting their routes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	umferrors "github.com/F45FW/fwsp-umf-message/errors"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "umf"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitUsage + 1)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if err := validateFlags(cli); err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid flags: %v\n", err)
		return exitUsage
	}

	if cli.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return exitOK
	}

	logger := setupLogger(stderr, cli.LogLevel, cli.LogFormat)

	a, err := newApp(cli, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return exitFailed
	}

	failed, err := a.execute(cli.Command, cli.Args, stdin, stdout)

	if cli.Metrics {
		if merr := a.writeMetrics(stderr); merr != nil {
			logger.Error("Failed to write metrics", "error", merr)
		}
	}

	if err != nil {
		logger.Error("Command failed", "command", cli.Command, "class", umferrors.Classify(err).String(), "error", err)
		return exitFailed
	}
	if failed > 0 {
		logger.Info("Command finished with failures", "command", cli.Command, "failed", failed)
		return exitFailed
	}
	return exitOK
}
