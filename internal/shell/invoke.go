package shell

import (
	"context"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Call invokes m with arguments parsed from argString. A leading
// context.Context parameter receives ctx. The result is the first non-error
// return value, or nil when the method returns only an error.
func Call(ctx context.Context, m Member, argString string) (any, error) {
	args, err := splitArgs(argString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name, err)
	}

	params := m.Params()
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d (usage: %s)", m.Name, len(params), len(args), m.Signature())
	}

	fnType := m.fn.Type()
	in := make([]reflect.Value, 0, fnType.NumIn())
	if fnType.NumIn() > 0 && fnType.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, p := range params {
		v, err := convertArg(args[i], p)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", m.Name, i+1, err)
		}
		in = append(in, v)
	}

	out := m.fn.Call(in)

	var result any
	for i, v := range out {
		if fnType.Out(i) == errorType {
			if !v.IsNil() {
				return nil, v.Interface().(error)
			}
			continue
		}
		if result == nil {
			result = v.Interface()
		}
	}
	return result, nil
}
