// Package parinfer defines the canonical request handed to the parinfer engine.
// The JSON encoding matches the engine's JSON input format, so a request built
// here can be piped straight into it.
package parinfer

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Mode names accepted by the engine.
const (
	ModeIndent = "indent"
	ModeParen  = "paren"
	ModeSmart  = "smart"
)

// DefaultCommentChar is the line comment character used when none is given.
const DefaultCommentChar = ";"

// Request is the normalized input of one engine run.
type Request struct {
	// Mode is one of "indent", "paren" or "smart".
	Mode string `json:"mode" jsonschema:"required,enum=indent,enum=paren,enum=smart"`
	// Text is the buffer to process.
	Text string `json:"text" jsonschema:"required"`
	// Options carries cursor state, previous state and dialect switches.
	Options Options `json:"options"`
}

// Options holds everything besides the mode and the text.
// All coordinates are zero-based. A nil pointer means the value is unknown.
type Options struct {
	Changes        []Change `json:"changes"`
	CursorX        *int     `json:"cursorX,omitempty" jsonschema:"minimum=0"`
	CursorLine     *int     `json:"cursorLine,omitempty" jsonschema:"minimum=0"`
	PrevText       *string  `json:"prevText,omitempty"`
	PrevCursorX    *int     `json:"prevCursorX,omitempty" jsonschema:"minimum=0"`
	PrevCursorLine *int     `json:"prevCursorLine,omitempty" jsonschema:"minimum=0"`
	ForceBalance   bool     `json:"forceBalance"`
	ReturnParens   bool     `json:"returnParens"`
	// CommentChar is a single character.
	CommentChar        string `json:"commentChar" jsonschema:"minLength=1,maxLength=1"`
	PartialResult      bool   `json:"partialResult"`
	SelectionStartLine *int   `json:"selectionStartLine,omitempty" jsonschema:"minimum=0"`

	// Dialect switches, see the language package.
	LispVlineSymbols  bool `json:"lispVlineSymbols"`
	LispBlockComment  bool `json:"lispBlockComment"`
	SchemeSexpComment bool `json:"schemeSexpComment"`
	JanetLongStrings  bool `json:"janetLongStrings"`
}

// Change describes one edit made since the previous run.
type Change struct {
	X       int    `json:"x" jsonschema:"required,minimum=0"`
	LineNo  int    `json:"lineNo" jsonschema:"required,minimum=0"`
	OldText string `json:"oldText" jsonschema:"required"`
	NewText string `json:"newText" jsonschema:"required"`
}

// NewOptions returns Options with the engine defaults: no changes, nothing
// unset filled in, and the default comment character.
func NewOptions() Options {
	return Options{
		Changes:     []Change{},
		CommentChar: DefaultCommentChar,
	}
}

// RequestSchema returns the JSON Schema of the request document read by the
// JSON input format.
func RequestSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference:             true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Request{})
	schema.Title = "parinfer request"
	return json.MarshalIndent(schema, "", "  ")
}
