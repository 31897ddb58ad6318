package shell

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"apishell/internal/apiclient"
)

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// Member is a callable method of a bound value.
type Member struct {
	// Name is the snake_case name shown in the shell, e.g. "get_supplier".
	Name string
	// GoName is the method's Go identifier, e.g. "GetSupplier".
	GoName string
	fn     reflect.Value
}

// Params returns the parameter types the user must supply, excluding a
// leading context.Context.
func (m Member) Params() []reflect.Type {
	t := m.fn.Type()
	var params []reflect.Type
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if i == 0 && in == contextType {
			continue
		}
		params = append(params, in)
	}
	return params
}

// Signature renders the member as "name <type> <type>".
func (m Member) Signature() string {
	parts := []string{m.Name}
	for _, p := range m.Params() {
		parts = append(parts, "<"+paramTypeName(p)+">")
	}
	return strings.Join(parts, " ")
}

// MemberError reports access to a member that is not available on a binding.
type MemberError struct {
	Member string
	Type   string
	// Denied is set when the member was rejected by the read-only rule.
	Denied bool
}

func (e *MemberError) Error() string {
	if e.Denied {
		return fmt.Sprintf("'%s' is not a read-only attribute of '%s'", e.Member, e.Type)
	}
	return fmt.Sprintf("'%s' is not an available attribute of '%s'", e.Member, e.Type)
}

// Members lists the callable members of a binding sorted by name.
// For read-only bindings only members named as reads are listed.
func Members(b Binding) []Member {
	v := reflect.ValueOf(b.Value)
	t := v.Type()

	members := make([]Member, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		if b.ReadOnly && !apiclient.IsReadOnly(method.Name) {
			continue
		}
		members = append(members, Member{
			Name:   snakeCase(method.Name),
			GoName: method.Name,
			fn:     v.Method(i),
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// LookupMember finds a member by its shell or Go name. The lookup is
// checked at access time: a denied or unknown name yields a *MemberError.
func LookupMember(b Binding, name string) (Member, error) {
	if b.ReadOnly && !apiclient.IsReadOnly(name) {
		return Member{}, &MemberError{Member: name, Type: b.TypeName(), Denied: true}
	}

	key := normalizeName(name)
	for _, m := range Members(b) {
		if normalizeName(m.GoName) == key {
			return m, nil
		}
	}
	return Member{}, &MemberError{Member: name, Type: b.TypeName()}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms
// together: GetBaseURL -> get_base_url, FindDraftServices -> find_draft_services.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func paramTypeName(t reflect.Type) string {
	switch t {
	case reflect.TypeOf(apiclient.Params(nil)):
		return "params"
	case reflect.TypeOf(apiclient.Object(nil)):
		return "object"
	}
	return t.String()
}
