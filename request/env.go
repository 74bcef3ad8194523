package request

import "os"

// Kakoune exports these to the shell block that runs the request builder.
const (
	EnvSelection          = "kak_selection"
	EnvFiletype           = "kak_opt_filetype"
	EnvCursorColumn       = "kak_opt_parinfer_cursor_char_column"
	EnvCursorLine         = "kak_opt_parinfer_cursor_line"
	EnvPreviousText       = "kak_opt_parinfer_previous_text"
	EnvPreviousCursorCol  = "kak_opt_parinfer_previous_cursor_char_column"
	EnvPreviousCursorLine = "kak_opt_parinfer_previous_cursor_line"
)

// KakouneVariables lists every variable the Kakoune path reads, in a stable order.
var KakouneVariables = []string{
	EnvSelection,
	EnvFiletype,
	EnvCursorColumn,
	EnvCursorLine,
	EnvPreviousText,
	EnvPreviousCursorCol,
	EnvPreviousCursorLine,
}

// Env looks up environment variables. A variable set to "" is present.
type Env interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed environment, mostly for tests.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
