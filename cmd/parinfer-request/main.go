// Command parinfer-request builds a parinfer request from text on stdin, a
// JSON document or Kakoune editor state, and writes it as JSON to stdout.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	parinfer "github.com/avrma-forks/parinfer-rust"
	"github.com/avrma-forks/parinfer-rust/envsnap"
	"github.com/avrma-forks/parinfer-rust/language"
	"github.com/avrma-forks/parinfer-rust/options"
	"github.com/avrma-forks/parinfer-rust/request"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, request.OSEnv{}))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, env request.Env) int {
	settings, err := parinfer.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "parinfer: %v\n", err)
		return 1
	}
	logger := newLogger(settings, stderr).With("invocation", uuid.New().String())
	slog.SetDefault(logger)

	if err := execute(settings, args, stdin, stdout, env); err != nil {
		slog.Debug("request failed", "error", err)
		fmt.Fprintf(stderr, "parinfer: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func execute(settings parinfer.Settings, args []string, stdin io.Reader, stdout io.Writer, env request.Env) error {
	path := parinfer.ConfigPath(settings)
	cfg, undecoded, err := parinfer.LoadConfig(path)
	if err != nil {
		return err
	}
	for _, key := range undecoded {
		slog.Warn("unknown config key", "path", path, "key", key)
	}
	for _, w := range parinfer.ValidateConfig(cfg) {
		slog.Warn("config", "path", path, "warning", w)
	}

	d := options.Defaults{
		InputFormat:  cfg.Flags.InputFormat,
		OutputFormat: cfg.Flags.OutputFormat,
		Mode:         cfg.Flags.Mode,
		CommentChar:  cfg.Flags.CommentChar,
	}
	conf, err := options.ParseWithDefaults(args, d)
	if err != nil {
		return err
	}

	switch {
	case conf.Help:
		_, err := io.WriteString(stdout, options.Usage(d))
		return err
	case conf.Version:
		_, err := fmt.Fprintln(stdout, "parinfer-request", Version)
		return err
	case conf.PrintSchema:
		schema, err := parinfer.RequestSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s\n", schema)
		return err
	case conf.DumpEnv:
		_, err := envsnap.Capture(env).WriteTo(stdout)
		return err
	}

	if conf.EnvFile != "" {
		snap, err := readSnapshot(conf.EnvFile)
		if err != nil {
			return err
		}
		env = snap
	}

	req, err := request.NewBuilder(conf,
		request.WithStdin(stdin),
		request.WithEnv(env),
		request.WithLanguages(language.NewResolver(cfg.Filetypes)),
	).Build()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(req)
}

func readSnapshot(path string) (envsnap.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &parinfer.IOError{Operation: "open", Path: path, Err: err}
	}
	defer f.Close()
	snap, err := envsnap.Read(f, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return snap, nil
}

func newLogger(s parinfer.Settings, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(s.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// exitCode is 2 for bad arguments or input and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, parinfer.ErrInvalidArguments) || errors.Is(err, parinfer.ErrInvalidInput) {
		return 2
	}
	return 1
}
