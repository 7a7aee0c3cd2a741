package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/F45FW/fwsp-umf-message/config"
	"github.com/F45FW/fwsp-umf-message/errors"
	"github.com/F45FW/fwsp-umf-message/message"
	"github.com/F45FW/fwsp-umf-message/metric"
	"github.com/F45FW/fwsp-umf-message/natsumf"
	"github.com/F45FW/fwsp-umf-message/route"
)

const maxLineSize = 1 << 20

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *metric.Registry
	factory  *message.Factory
	resolver *route.Resolver
	codec    *natsumf.Codec
	target   message.Form
}

// lineFunc handles one input line. A non-nil error marks the line failed.
type lineFunc func(a *app, line []byte) (any, error)

var commands = map[string]lineFunc{
	"create":   (*app).create,
	"validate": (*app).validate,
	"convert":  (*app).convert,
	"route":    (*app).route,
	"subject":  (*app).subject,
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

func newApp(cli *CLIConfig, logger *slog.Logger) (*app, error) {
	cfg := config.Default()
	if cli.ConfigPath != "" {
		loaded, err := config.Load(cli.ConfigPath, logger)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cli.Short {
		cfg.ShortForm = true
	}
	if cli.Long {
		cfg.ShortForm = false
	}

	form := message.Long
	if cfg.ShortForm {
		form = message.Short
	}
	target := message.Short
	if cli.To == "long" {
		target = message.Long
	}

	registry := metric.NewRegistry(cfg.MetricsNamespace)

	factory := message.NewFactory(
		message.WithVersion(cfg.Version),
		message.WithForm(form),
		message.WithMetrics(registry.Metrics()),
		message.WithLogger(logger),
	)

	resolver, err := route.NewResolver(
		route.WithParser(route.Parser{DefaultMethod: cfg.DefaultHTTPMethod}),
		route.WithCacheSize(cfg.RouteCacheSize),
		route.WithMetrics(registry.Metrics()),
		route.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	codec, err := natsumf.NewCodec(
		natsumf.WithPrefix(cli.Prefix),
		natsumf.WithFactory(factory),
		natsumf.WithResolver(resolver),
		natsumf.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("Components ready",
		"version", cfg.Version,
		"form", form.String(),
		"default_http_method", cfg.DefaultHTTPMethod)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		factory:  factory,
		resolver: resolver,
		codec:    codec,
		target:   target,
	}, nil
}

// lineError is written in place of a result for a failed line.
type lineError struct {
	Line  int    `json:"line"`
	Class string `json:"class"`
	Error string `json:"error"`
}

// execute runs name over args, or over stdin lines when args is empty, and
// returns the number of failed lines.
func (a *app) execute(name string, args []string, stdin io.Reader, stdout io.Writer) (int, error) {
	fn, ok := commands[name]
	if !ok {
		return 0, errors.WrapInvalid(fmt.Errorf("unknown command %q", name), "umf", "execute", "select command")
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)

	failed := 0
	handle := func(n int, line []byte) error {
		out, err := fn(a, line)
		if err != nil {
			failed++
			class := errors.Classify(err).String()
			a.logger.Debug("Line failed", "command", name, "line", n, "class", class, "error", err)
			if out == nil {
				out = lineError{Line: n, Class: class, Error: err.Error()}
			}
		}
		return enc.Encode(out)
	}

	if len(args) > 0 {
		for i, arg := range args {
			if err := handle(i+1, []byte(arg)); err != nil {
				return failed, errors.Wrap(err, "umf", "execute", "write result")
			}
		}
		return failed, nil
	}

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := handle(n, line); err != nil {
			return failed, errors.Wrap(err, "umf", "execute", "write result")
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, errors.Wrap(err, "umf", "execute", "read input")
	}
	return failed, nil
}

func (a *app) create(line []byte) (any, error) {
	overrides, err := message.DecodeFields(line)
	if err != nil {
		return nil, err
	}
	return a.factory.Create(overrides), nil
}

// validation is the validate command's per-message result.
type validation struct {
	MID     string   `json:"mid,omitempty"`
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing,omitempty"`
}

func (a *app) validate(line []byte) (any, error) {
	m, err := a.factory.Unmarshal(line)
	if err != nil {
		return nil, err
	}
	result := validation{MID: m.MID(), Valid: a.factory.Validate(m), Missing: m.Missing()}
	if !result.Valid {
		return result, m.Check()
	}
	return result, nil
}

func (a *app) convert(line []byte) (any, error) {
	m, err := a.factory.Unmarshal(line)
	if err != nil {
		return nil, err
	}
	if a.target == message.Short {
		return a.factory.ToShort(m), nil
	}
	return a.factory.ToLong(m), nil
}

func (a *app) route(line []byte) (any, error) {
	r := a.resolver.Resolve(strings.TrimSpace(string(line)))
	return r, r.Err()
}

// subjectResult is the subject command's per-message result.
type subjectResult struct {
	Subject string              `json:"subject"`
	Headers map[string][]string `json:"headers"`
}

func (a *app) subject(line []byte) (any, error) {
	m, err := a.factory.Unmarshal(line)
	if err != nil {
		return nil, err
	}
	nm, err := a.codec.Encode(m)
	if err != nil {
		return nil, err
	}
	return subjectResult{Subject: nm.Subject, Headers: nm.Header}, nil
}

// writeMetrics writes the registry in the Prometheus text exposition format.
func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.PrometheusRegistry().Gather()
	if err != nil {
		return errors.Wrap(err, "umf", "writeMetrics", "gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "umf", "writeMetrics", "encode "+mf.GetName())
		}
	}
	return nil
}
