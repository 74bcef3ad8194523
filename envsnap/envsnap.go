// Package envsnap captures the editor variables of one invocation as a shell
// snapshot and reads such snapshots back, so a Kakoune invocation can be
// replayed from a terminal.
//
// A snapshot is a bash file of literal assignments:
//
//	export kak_selection='(foo bar'
//	export kak_opt_parinfer_cursor_char_column=4
package envsnap

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/avrma-forks/parinfer-rust/request"
)

// Snapshot maps variable names to values. It implements request.Env.
type Snapshot map[string]string

// LookupEnv implements request.Env.
func (s Snapshot) LookupEnv(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Capture copies the Kakoune variables that are set in env.
func Capture(env request.Env) Snapshot {
	s := make(Snapshot)
	for _, name := range request.KakouneVariables {
		if v, ok := env.LookupEnv(name); ok {
			s[name] = v
		}
	}
	return s
}

// WriteTo writes one export line per variable, sorted by name.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	bw := bufio.NewWriter(w)
	var n int64
	for _, name := range names {
		quoted, err := syntax.Quote(s[name], syntax.LangBash)
		if err != nil {
			return n, fmt.Errorf("quote %s: %w", name, err)
		}
		m, err := fmt.Fprintf(bw, "export %s=%s\n", name, quoted)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Read parses a snapshot. Only literal assignments are accepted, either bare
// or behind export; expansions and commands are rejected. name is used in
// error positions.
func Read(r io.Reader, name string) (Snapshot, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(r, name)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	s := make(Snapshot)
	for _, stmt := range file.Stmts {
		var assigns []*syntax.Assign
		switch cmd := stmt.Cmd.(type) {
		case *syntax.DeclClause:
			if cmd.Variant.Value != "export" {
				return nil, fmt.Errorf("%s: unsupported %s", stmt.Pos(), cmd.Variant.Value)
			}
			assigns = cmd.Args
		case *syntax.CallExpr:
			if len(cmd.Args) > 0 {
				return nil, fmt.Errorf("%s: snapshot must not run commands", stmt.Pos())
			}
			assigns = cmd.Assigns
		default:
			return nil, fmt.Errorf("%s: unsupported statement", stmt.Pos())
		}
		if stmt.Negated || stmt.Background || len(stmt.Redirs) > 0 {
			return nil, fmt.Errorf("%s: unsupported statement", stmt.Pos())
		}

		for _, as := range assigns {
			if as.Naked || as.Name == nil {
				continue
			}
			if as.Append || as.Index != nil || as.Array != nil {
				return nil, fmt.Errorf("%s: only plain assignments are supported", as.Pos())
			}
			value, err := literal(as.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", as.Pos(), as.Name.Value, err)
			}
			s[as.Name.Value] = value
		}
	}
	return s, nil
}

// literal evaluates a word made only of literal text and quotes.
func literal(word *syntax.Word) (string, error) {
	if word == nil {
		return "", nil
	}
	var bad syntax.Node
	syntax.Walk(word, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.ParamExp, *syntax.CmdSubst, *syntax.ArithmExp, *syntax.ProcSubst, *syntax.ExtGlob, *syntax.BraceExp:
			if bad == nil {
				bad = node
			}
			return false
		}
		return true
	})
	if bad != nil {
		var b strings.Builder
		syntax.NewPrinter().Print(&b, bad)
		return "", fmt.Errorf("expansion %s is not allowed", b.String())
	}
	return expand.Literal(nil, word)
}
