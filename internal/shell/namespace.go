package shell

import (
	"fmt"
	"reflect"
)

// Binding is a named value available in the shell.
type Binding struct {
	Name  string
	Value any
	// ReadOnly restricts the binding's members to read operations,
	// on top of whatever the value's own method set allows.
	ReadOnly bool
}

// TypeName is the unqualified type name of the bound value, e.g. "ReadOnlyDataClient".
func (b Binding) TypeName() string {
	return typeName(b.Value)
}

// Namespace is the ordered set of bindings handed to the shell.
type Namespace struct {
	bindings []Binding
	index    map[string]int
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{index: map[string]int{}}
}

// Bind adds a binding. Names are unique; binding an existing name is an error.
func (n *Namespace) Bind(name string, value any, readOnly bool) error {
	if name == "" {
		return fmt.Errorf("binding name must not be empty")
	}
	if value == nil {
		return fmt.Errorf("binding %q has no value", name)
	}
	if _, exists := n.index[name]; exists {
		return fmt.Errorf("binding %q already exists", name)
	}
	n.index[name] = len(n.bindings)
	n.bindings = append(n.bindings, Binding{Name: name, Value: value, ReadOnly: readOnly})
	return nil
}

// Lookup returns the binding called name.
func (n *Namespace) Lookup(name string) (Binding, bool) {
	i, ok := n.index[name]
	if !ok {
		return Binding{}, false
	}
	return n.bindings[i], true
}

// Names returns binding names in bind order.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.bindings))
	for _, b := range n.bindings {
		names = append(names, b.Name)
	}
	return names
}

// Bindings returns a copy of all bindings in bind order.
func (n *Namespace) Bindings() []Binding {
	return append([]Binding(nil), n.bindings...)
}

// Len returns the number of bindings.
func (n *Namespace) Len() int {
	return len(n.bindings)
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
