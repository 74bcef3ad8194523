// Package language maps editor filetypes to the syntax switches of the
// Lisp dialect they name.
package language

// Defaults are the dialect switches passed to the engine.
type Defaults struct {
	LispVlineSymbols  bool
	LispBlockComment  bool
	SchemeSexpComment bool
	JanetLongStrings  bool
}

// Fallback is the dialect used for empty and unrecognized names.
// Clojure rules work well enough for most lisps.
const Fallback = "clojure"

var dialects = map[string]Defaults{
	"clojure": {},
	"janet":   {JanetLongStrings: true},
	"lisp":    {LispVlineSymbols: true, LispBlockComment: true},
	"racket":  {LispVlineSymbols: true, LispBlockComment: true, SchemeSexpComment: true},
	"scheme":  {LispVlineSymbols: true, LispBlockComment: true, SchemeSexpComment: true},
}

// Resolve returns the switches for the named dialect. An absent filetype is
// passed as "".
func Resolve(name string) Defaults {
	if d, ok := dialects[name]; ok {
		return d
	}
	return dialects[Fallback]
}

// Known reports whether name is one of the built-in dialects.
func Known(name string) bool {
	_, ok := dialects[name]
	return ok
}

// Resolver resolves filetypes with an extra alias table, e.g. "fennel" to
// "clojure". Built-in dialect names cannot be aliased.
type Resolver struct {
	aliases map[string]string
}

// NewResolver copies aliases into a new Resolver. A nil map is fine.
func NewResolver(aliases map[string]string) *Resolver {
	r := &Resolver{aliases: make(map[string]string, len(aliases))}
	for filetype, dialect := range aliases {
		if Known(filetype) {
			continue
		}
		r.aliases[filetype] = dialect
	}
	return r
}

// Resolve applies the alias table, then the dialect table.
func (r *Resolver) Resolve(name string) Defaults {
	if r != nil {
		if dialect, ok := r.aliases[name]; ok {
			return Resolve(dialect)
		}
	}
	return Resolve(name)
}
