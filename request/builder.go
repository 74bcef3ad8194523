// Package request builds the canonical parinfer.Request from one of the
// supported input surfaces: text on stdin, Kakoune editor variables, or a
// JSON request document on stdin.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	parinfer "github.com/avrma-forks/parinfer-rust"
	"github.com/avrma-forks/parinfer-rust/language"
	"github.com/avrma-forks/parinfer-rust/options"
)

var errInvalidUTF8 = errors.New("input is not valid UTF-8")

// source builds a request from one input surface.
type source func(b *Builder) (*parinfer.Request, error)

// sources holds one source per input format. A new input surface is a new
// entry here.
var sources = map[options.Format]source{
	options.FormatText:    fromText,
	options.FormatKakoune: fromKakoune,
	options.FormatJSON:    fromJSON,
}

// Builder turns a Configuration plus stdin or environment into a Request.
type Builder struct {
	cfg       *options.Configuration
	stdin     io.Reader
	env       Env
	languages *language.Resolver
}

// Option configures a Builder.
type Option func(*Builder)

// WithStdin replaces os.Stdin as the input stream.
func WithStdin(r io.Reader) Option {
	return func(b *Builder) { b.stdin = r }
}

// WithEnv replaces the process environment.
func WithEnv(env Env) Option {
	return func(b *Builder) { b.env = env }
}

// WithLanguages sets the filetype resolver used by the Kakoune path.
func WithLanguages(r *language.Resolver) Option {
	return func(b *Builder) { b.languages = r }
}

// NewBuilder returns a Builder reading os.Stdin and the process environment.
func NewBuilder(cfg *options.Configuration, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		stdin:     os.Stdin,
		env:       OSEnv{},
		languages: language.NewResolver(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the request for the configured input format. Every
// failure is returned; nothing here exits the process.
func (b *Builder) Build() (*parinfer.Request, error) {
	build, ok := sources[b.cfg.InputFormat]
	if !ok {
		return nil, &parinfer.ValidationError{
			Field:   "input-format",
			Value:   b.cfg.InputFormat.String(),
			Message: "no request source for this format",
		}
	}
	slog.Debug("building request", "input_format", b.cfg.InputFormat.String(), "mode", b.cfg.Mode.String())
	return build(b)
}

// baseRequest returns a request with every option unset except the comment
// character.
func (b *Builder) baseRequest(text string) *parinfer.Request {
	opts := parinfer.NewOptions()
	opts.CommentChar = string(b.cfg.CommentChar)
	return &parinfer.Request{
		Mode:    b.cfg.Mode.String(),
		Text:    text,
		Options: opts,
	}
}

func fromText(b *Builder) (*parinfer.Request, error) {
	text, err := b.readStdin()
	if err != nil {
		return nil, err
	}
	return b.baseRequest(text), nil
}

func fromKakoune(b *Builder) (*parinfer.Request, error) {
	selection, ok := b.env.LookupEnv(EnvSelection)
	if !ok {
		return nil, &parinfer.ValidationError{
			Field:   EnvSelection,
			Message: "selection is required for kakoune input",
		}
	}

	filetype, _ := b.env.LookupEnv(EnvFiletype)
	lang := b.languages.Resolve(filetype)

	req := b.baseRequest(selection)
	opts := &req.Options
	coords := []struct {
		name string
		dst  **int
	}{
		{EnvCursorColumn, &opts.CursorX},
		{EnvCursorLine, &opts.CursorLine},
		{EnvPreviousCursorCol, &opts.PrevCursorX},
		{EnvPreviousCursorLine, &opts.PrevCursorLine},
	}
	for _, c := range coords {
		v, err := zeroBased(b.env, c.name)
		if err != nil {
			return nil, err
		}
		*c.dst = v
	}
	if prev, ok := b.env.LookupEnv(EnvPreviousText); ok {
		opts.PrevText = &prev
	}

	opts.LispVlineSymbols = lang.LispVlineSymbols
	opts.LispBlockComment = lang.LispBlockComment
	opts.SchemeSexpComment = lang.SchemeSexpComment
	opts.JanetLongStrings = lang.JanetLongStrings

	slog.Debug("kakoune request", "filetype", filetype, "selection_bytes", len(selection))
	return req, nil
}

// zeroBased reads a one-based editor coordinate and converts it to the
// zero-based value the engine uses. An absent variable yields nil.
func zeroBased(env Env, name string) (*int, error) {
	raw, ok := env.LookupEnv(name)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &parinfer.ValidationError{Field: name, Value: raw, Message: "not an integer", Err: err}
	}
	if n < 1 {
		return nil, &parinfer.ValidationError{Field: name, Value: raw, Message: "editor coordinates start at 1"}
	}
	n--
	return &n, nil
}

func fromJSON(b *Builder) (*parinfer.Request, error) {
	input, err := b.readStdin()
	if err != nil {
		return nil, err
	}

	// Omitted fields keep the engine defaults; present fields are taken as is.
	req := &parinfer.Request{Options: parinfer.NewOptions()}
	dec := json.NewDecoder(strings.NewReader(input))
	if err := dec.Decode(req); err != nil {
		return nil, &parinfer.DecodeError{Format: "JSON", Message: err.Error(), Err: err}
	}
	if dec.More() {
		return nil, &parinfer.DecodeError{Format: "JSON", Message: "unexpected data after request document"}
	}
	if err := checkKeys([]byte(input), requestType, ""); err != nil {
		return nil, err
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	if req.Options.Changes == nil {
		req.Options.Changes = []parinfer.Change{}
	}
	return req, nil
}

// readStdin reads the whole input stream, which must be valid UTF-8.
func (b *Builder) readStdin() (string, error) {
	if f, ok := b.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		slog.Warn("reading request input from a terminal; end it with Ctrl-D")
	}
	data, err := io.ReadAll(b.stdin)
	if err != nil {
		return "", &parinfer.IOError{Operation: "read", Path: "stdin", Err: err}
	}
	if !utf8.Valid(data) {
		return "", &parinfer.IOError{Operation: "read", Path: "stdin", Err: errInvalidUTF8}
	}
	slog.Debug("read stdin", "bytes", len(data))
	return string(data), nil
}
