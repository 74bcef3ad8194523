package request

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	parinfer "github.com/avrma-forks/parinfer-rust"
	"github.com/avrma-forks/parinfer-rust/options"
)

var requestType = reflect.TypeOf(parinfer.Request{})

// checkKeys rejects object keys that only match a request field when case is
// ignored. encoding/json would accept "MODE" for "mode"; the engine would not.
// Keys matching nothing are ignored, as the decoder ignores them.
func checkKeys(data []byte, t reflect.Type, path string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	fields := jsonFields(t)

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ft, ok := fields[key]
		if !ok {
			for name := range fields {
				if strings.EqualFold(key, name) {
					return &parinfer.DecodeError{
						Format:  "JSON",
						Message: fmt.Sprintf("field %q must be spelled %q", path+key, path+name),
					}
				}
			}
			continue
		}
		switch {
		case ft.Kind() == reflect.Struct:
			if err := checkKeys(obj[key], ft, path+key+"."); err != nil {
				return err
			}
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Struct:
			var elems []json.RawMessage
			if err := json.Unmarshal(obj[key], &elems); err != nil {
				continue
			}
			for i, elem := range elems {
				if err := checkKeys(elem, ft.Elem(), fmt.Sprintf("%s%s[%d].", path, key, i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// jsonFields maps the JSON names of t's fields to their types.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[name] = f.Type
	}
	return fields
}

// checkRequest enforces what the engine's types guarantee: a single comment
// character and no negative coordinates.
func checkRequest(req *parinfer.Request) error {
	o := &req.Options
	if _, err := options.ParseCommentChar(o.CommentChar); err != nil {
		return &parinfer.DecodeError{
			Format:  "JSON",
			Message: fmt.Sprintf("options.commentChar %q must be a single character", o.CommentChar),
		}
	}

	type coord struct {
		name  string
		value *int
	}
	coords := []coord{
		{"options.cursorX", o.CursorX},
		{"options.cursorLine", o.CursorLine},
		{"options.prevCursorX", o.PrevCursorX},
		{"options.prevCursorLine", o.PrevCursorLine},
		{"options.selectionStartLine", o.SelectionStartLine},
	}
	for i := range o.Changes {
		c := &o.Changes[i]
		coords = append(coords,
			coord{fmt.Sprintf("options.changes[%d].x", i), &c.X},
			coord{fmt.Sprintf("options.changes[%d].lineNo", i), &c.LineNo},
		)
	}
	for _, c := range coords {
		if c.value != nil && *c.value < 0 {
			return &parinfer.DecodeError{
				Format:  "JSON",
				Message: fmt.Sprintf("%s must not be negative, got %d", c.name, *c.value),
			}
		}
	}
	return nil
}
