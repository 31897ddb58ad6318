package shell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// argument is one whitespace-separated token of an expression. JSON
// objects, arrays and strings may contain whitespace and are kept whole.
type argument struct {
	text string
	// quoted is set for JSON values that start with '{', '[' or '"'.
	quoted bool
}

// splitArgs tokenizes the argument part of an expression.
func splitArgs(input string) ([]argument, error) {
	var args []argument
	rest := input
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return args, nil
		}

		switch rest[0] {
		case '{', '[', '"':
			dec := json.NewDecoder(strings.NewReader(rest))
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("argument %d: invalid JSON: %w", len(args)+1, err)
			}
			end := int(dec.InputOffset())
			args = append(args, argument{text: rest[:end], quoted: true})
			rest = rest[end:]
		default:
			end := strings.IndexFunc(rest, unicode.IsSpace)
			if end < 0 {
				end = len(rest)
			}
			args = append(args, argument{text: rest[:end]})
			rest = rest[end:]
		}
	}
}

// convertArg decodes an argument into a value of type t.
// Strings accept bare words; everything else is decoded as JSON.
func convertArg(arg argument, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)

	if t.Kind() == reflect.String && !arg.quoted {
		ptr.Elem().SetString(arg.text)
		return ptr.Elem(), nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(arg.text)))
	if err := dec.Decode(ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", arg.text, paramTypeName(t))
	}
	if dec.More() {
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", arg.text, paramTypeName(t))
	}
	return ptr.Elem(), nil
}
