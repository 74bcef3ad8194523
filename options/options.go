// Package options parses the command line into a validated Configuration.
package options

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/alecthomas/kong"

	parinfer "github.com/avrma-forks/parinfer-rust"
)

// Format is the shape of the input read or the output written.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatKakoune
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatKakoune:
		return "kakoune"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Mode selects how the engine treats parens and indentation.
type Mode int

const (
	ModeIndent Mode = iota
	ModeParen
	ModeSmart
)

// String returns the mode name as the engine expects it.
func (m Mode) String() string {
	switch m {
	case ModeIndent:
		return parinfer.ModeIndent
	case ModeParen:
		return parinfer.ModeParen
	case ModeSmart:
		return parinfer.ModeSmart
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Configuration is the validated command line. It is built once and not
// modified afterwards.
type Configuration struct {
	Help         bool
	Version      bool
	InputFormat  Format
	OutputFormat Format
	Mode         Mode
	CommentChar  rune

	// EnvFile names an environment snapshot to read instead of the process
	// environment. Empty means the process environment.
	EnvFile     string
	DumpEnv     bool
	PrintSchema bool
}

// Defaults are the raw values applied to absent flags. They go through the
// same validation as values given on the command line.
type Defaults struct {
	InputFormat  string
	OutputFormat string
	Mode         string
	CommentChar  string
}

// BuiltinDefaults returns the defaults used without a config file.
func BuiltinDefaults() Defaults {
	return Defaults{
		InputFormat:  "text",
		OutputFormat: "text",
		Mode:         parinfer.ModeSmart,
		CommentChar:  parinfer.DefaultCommentChar,
	}
}

// flags is the command line schema. Usage is rendered from these tags.
type flags struct {
	Help         bool   `short:"h" help:"Show this help message."`
	InputFormat  string `name:"input-format" placeholder:"FMT" default:"${input_format}" help:"'json', 'kakoune', 'text' (default: '${default}')."`
	Mode         string `short:"m" placeholder:"MODE" default:"${mode}" help:"indent, paren or smart (default: ${default})."`
	OutputFormat string `name:"output-format" placeholder:"FMT" default:"${output_format}" help:"'json', 'kakoune', 'text' (default: '${default}')."`
	CommentChar  string `name:"comment-char" placeholder:"CC" default:"${comment_char}" help:"Line comment character (default: '${default}')."`
	EnvFile      string `name:"env-file" placeholder:"FILE" help:"Read editor variables from a snapshot written by --dump-env."`
	DumpEnv      bool   `name:"dump-env" help:"Write the editor variables of this process as a shell snapshot and exit."`
	PrintSchema  bool   `name:"print-schema" help:"Print the JSON Schema of the request document and exit."`
	Version      bool   `help:"Print the version and exit."`
}

func newParser(cli *flags, d Defaults, stdout io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("parinfer-request"),
		kong.Description("Build a parinfer request from text, JSON or Kakoune editor state."),
		kong.NoDefaultHelp(),
		kong.Writers(stdout, io.Discard),
		kong.Exit(func(int) {}),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"input_format":  d.InputFormat,
			"output_format": d.OutputFormat,
			"mode":          d.Mode,
			"comment_char":  d.CommentChar,
		},
	)
}

// Parse parses args, without the program name, using BuiltinDefaults.
func Parse(args []string) (*Configuration, error) {
	return ParseWithDefaults(args, BuiltinDefaults())
}

// ParseWithDefaults parses args and applies d to absent flags.
//
// Parse failures are returned as *parinfer.ArgumentError and rejected values
// as *parinfer.ValidationError. A help or version request skips value
// validation. Each flag may be given at most once.
func ParseWithDefaults(args []string, d Defaults) (*Configuration, error) {
	var cli flags
	parser, err := newParser(&cli, d, io.Discard)
	if err != nil {
		return nil, fmt.Errorf("build flag parser: %w", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return nil, &parinfer.ArgumentError{Err: err}
	}
	if err := checkRepeated(ctx); err != nil {
		return nil, &parinfer.ArgumentError{Err: err}
	}

	if cli.Help || cli.Version {
		cfg, err := validate(flags{
			InputFormat:  d.InputFormat,
			OutputFormat: d.OutputFormat,
			Mode:         d.Mode,
			CommentChar:  d.CommentChar,
		})
		if err != nil {
			cfg, _ = validate(builtinFlags())
		}
		cfg.Help = cli.Help
		cfg.Version = cli.Version
		return cfg, nil
	}
	return validate(cli)
}

// checkRepeated rejects a flag given more than once on the command line.
func checkRepeated(ctx *kong.Context) error {
	seen := make(map[string]bool)
	for _, p := range ctx.Path {
		if p.Flag == nil || p.Resolved {
			continue
		}
		if seen[p.Flag.Name] {
			return fmt.Errorf("flag --%s given more than once", p.Flag.Name)
		}
		seen[p.Flag.Name] = true
	}
	return nil
}

func builtinFlags() flags {
	d := BuiltinDefaults()
	return flags{InputFormat: d.InputFormat, OutputFormat: d.OutputFormat, Mode: d.Mode, CommentChar: d.CommentChar}
}

func validate(cli flags) (*Configuration, error) {
	input, err := ParseFormat("input-format", cli.InputFormat)
	if err != nil {
		return nil, err
	}
	output, err := ParseFormat("output-format", cli.OutputFormat)
	if err != nil {
		return nil, err
	}
	mode, err := ParseMode(cli.Mode)
	if err != nil {
		return nil, err
	}
	cc, err := ParseCommentChar(cli.CommentChar)
	if err != nil {
		return nil, err
	}
	return &Configuration{
		InputFormat:  input,
		OutputFormat: output,
		Mode:         mode,
		CommentChar:  cc,
		EnvFile:      cli.EnvFile,
		DumpEnv:      cli.DumpEnv,
		PrintSchema:  cli.PrintSchema,
	}, nil
}

// ParseFormat accepts "text", "json" or "kakoune". field names the flag in
// the returned error.
func ParseFormat(field, s string) (Format, error) {
	switch s {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "kakoune":
		return FormatKakoune, nil
	}
	return 0, &parinfer.ValidationError{Field: field, Value: s, Message: "expected text, json or kakoune"}
}

// ParseMode accepts a mode name or its one-letter abbreviation.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "indent", "i":
		return ModeIndent, nil
	case "paren", "p":
		return ModeParen, nil
	case "smart", "s":
		return ModeSmart, nil
	}
	return 0, &parinfer.ValidationError{Field: "mode", Value: s, Message: "expected indent, paren or smart"}
}

// ParseCommentChar accepts exactly one character.
func ParseCommentChar(s string) (rune, error) {
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) != 1 {
		return 0, &parinfer.ValidationError{Field: "comment-char", Value: s, Message: "must be a single character"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Usage renders the help text for the flags, showing d as the defaults.
func Usage(d Defaults) string {
	var buf bytes.Buffer
	var cli flags
	parser, err := newParser(&cli, d, &buf)
	if err != nil {
		return ""
	}
	ctx, err := kong.Trace(parser, nil)
	if err != nil {
		return ""
	}
	if err := ctx.PrintUsage(false); err != nil {
		return ""
	}
	return buf.String()
}
