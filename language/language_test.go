package language

import "testing"

func TestResolveTable(t *testing.T) {
	tests := []struct {
		name string
		want Defaults
	}{
		{"clojure", Defaults{}},
		{"janet", Defaults{JanetLongStrings: true}},
		{"lisp", Defaults{LispVlineSymbols: true, LispBlockComment: true}},
		{"racket", Defaults{LispVlineSymbols: true, LispBlockComment: true, SchemeSexpComment: true}},
		{"scheme", Defaults{LispVlineSymbols: true, LispBlockComment: true, SchemeSexpComment: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.name); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestResolveFallsBackToClojure(t *testing.T) {
	clojure := Resolve("clojure")
	for _, name := range []string{"", "python", "Racket", "scheme "} {
		if got := Resolve(name); got != clojure {
			t.Errorf("Resolve(%q): expected clojure row %+v, got %+v", name, clojure, got)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("janet") {
		t.Error("expected janet to be known")
	}
	if Known("fennel") {
		t.Error("expected fennel to be unknown")
	}
}

func TestResolverAliases(t *testing.T) {
	r := NewResolver(map[string]string{
		"guile":   "scheme",
		"fennel":  "clojure",
		"broken":  "cobol",
		"clojure": "racket",
	})

	if got, want := r.Resolve("guile"), Resolve("scheme"); got != want {
		t.Errorf("guile: expected %+v, got %+v", want, got)
	}
	if got, want := r.Resolve("fennel"), Resolve("clojure"); got != want {
		t.Errorf("fennel: expected %+v, got %+v", want, got)
	}
	if got, want := r.Resolve("broken"), Resolve(Fallback); got != want {
		t.Errorf("broken alias: expected fallback %+v, got %+v", want, got)
	}
	// built-in names are never aliased
	if got, want := r.Resolve("clojure"), Resolve("clojure"); got != want {
		t.Errorf("clojure: expected %+v, got %+v", want, got)
	}
	if got, want := r.Resolve("janet"), Resolve("janet"); got != want {
		t.Errorf("janet: expected %+v, got %+v", want, got)
	}
}

func TestNilResolver(t *testing.T) {
	var r *Resolver
	if got, want := r.Resolve("lisp"), Resolve("lisp"); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
