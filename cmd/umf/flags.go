package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Short       bool
	Long        bool
	To          string
	Prefix      string
	Metrics     bool
	ShowVersion bool

	Command string
	Args    []string
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.ConfigPath, "config", getEnv("UMF_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: UMF_CONFIG)")
	fs.StringVar(&cfg.ConfigPath, "c", getEnv("UMF_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: UMF_CONFIG)")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("UMF_LOG_LEVEL", "warn"),
		"Log level: debug, info, warn, error (env: UMF_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("UMF_LOG_FORMAT", "text"),
		"Log format: json, text (env: UMF_LOG_FORMAT)")
	fs.BoolVar(&cfg.Short, "short", getEnvBool("UMF_SHORT", false),
		"create: build messages with short keys (env: UMF_SHORT)")
	fs.BoolVar(&cfg.Long, "long", false, "create: build messages with long keys")
	fs.StringVar(&cfg.To, "to", "short", "convert: target vocabulary, short or long")
	fs.StringVar(&cfg.Prefix, "prefix", "umf", "subject: first NATS subject token")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Write Prometheus metrics to stderr on exit")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")

	fs.Usage = func() {
		printDetailedHelp(fs, stderr)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if rest := fs.Args(); len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}

	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Command == "" {
		return fmt.Errorf("missing command")
	}
	if !slices.Contains(commandNames(), cfg.Command) {
		return fmt.Errorf("unknown command: %s", cfg.Command)
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if !slices.Contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}
	if cfg.Short && cfg.Long {
		return fmt.Errorf("-short and -long are mutually exclusive")
	}
	if cfg.To != "short" && cfg.To != "long" {
		return fmt.Errorf("invalid conversion target: %s", cfg.To)
	}

	return nil
}

func printDetailedHelp(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - UMF message tool

Usage: %s [options] <command> [args]

Commands read one JSON message per line from stdin and write one JSON
result per line to stdout.

  create     fill mid, timestamp and version into each message
  validate   report required fields missing from each message
  convert    rewrite each message in the -to vocabulary
  route      parse each argument (or stdin line) as a "to" route
  subject    print the NATS subject and headers for each message

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  echo '{"to":"svc:[GET]/v1/x","from":"cli:/","body":{}}' | %s create
  %s route 'fa1ae8d5@test-service:[GET]/v1/somedata'
  %s -to long convert < short.jsonl

Version: %s
`, appName, appName, appName, Version)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
