package resource

import (
	"fmt"
	"reflect"
	"sort"
)

// NotSupportedError is returned when attempting to instantiate an unsupported
// resource.
type NotSupportedError struct {
	Type string
}

// NotSupported is a no-op method that allows the error to be asserted as an
// interface, rather than importing the resource package.
func (e NotSupportedError) NotSupported() {}

// Error implements error.
func (e NotSupportedError) Error() string { return fmt.Sprintf("resource %q not supported", e.Type) }

// A Registry maintains a list of registered resources.
type Registry struct {
	resources map[string]reflect.Type
}

// RegistryFromDefinitions creates a new registry from a predefined list of
// resources. It should primarily be used in tests to set up a registry.
func RegistryFromDefinitions(defs ...Definition) *Registry {
	r := &Registry{}
	for _, def := range defs {
		r.Register(def)
	}
	return r
}

// Register adds a new resource type, keyed by the definition's type name.
//
// The Definition interface must be implemented on a pointer receiver on a
// struct. Panics otherwise. If another resource with the same type is already
// registered, it is overwritten.
//
// Not safe for concurrent access.
func (r *Registry) Register(def Definition) {
	t := reflect.TypeOf(def)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("Resource must be implemented on a pointer receiver on a struct, not %s", t))
	}
	if r.resources == nil {
		r.resources = make(map[string]reflect.Type)
	}
	r.resources[def.Type()] = t.Elem()
}

// New creates a new instance of a resource with the given type name. Returns
// NotSupportedError if a matching type is not found.
func (r *Registry) New(typename string) (Definition, error) {
	t, ok := r.resources[typename]
	if !ok {
		return nil, NotSupportedError{Type: typename}
	}
	return reflect.New(t).Interface().(Definition), nil
}

// Type returns the registered type with a certain name. Returns nil if the
// type has not been registered.
func (r *Registry) Type(typename string) reflect.Type {
	return r.resources[typename]
}

// Types returns the type names of all registered resources, sorted by name.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
