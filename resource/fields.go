package resource

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldDirection describes the direction (input and/or output) of a field in a
// resource.
type FieldDirection byte

// Field directions
const (
	Input  FieldDirection = 1 << 0         // Input
	Output                = 1 << 1         // Output
	IO                    = Input | Output // Input or Output
)

// Input returns true of the field direction includes input.
func (f FieldDirection) Input() bool { return f&Input == Input }

// Output returns true if the field direction includes output.
func (f FieldDirection) Output() bool { return f&Output == Output }

// String implements fmt.Stringer
func (f FieldDirection) String() string {
	var io []string
	if f.Input() {
		io = append(io, "input")
	}
	if f.Output() {
		io = append(io, "output")
	}
	if len(io) == 0 {
		return "unknown"
	}
	return strings.Join(io, " / ")
}

// A Field is an input or output field in a resource struct.
type Field struct {
	Dir      FieldDirection // Field Input/Output direction.
	Name     string         // External field name, from the name tag or derived from the field name.
	Required bool           // Field must be set, 'required' in rampart:"input,required".
	Secret   bool           // Field holds a sensitive value, 'secret' in rampart:"input,secret".
	Index    int            // Field index.
	Type     reflect.Type   // Field type.
	Rules    string         // Validation rules from the validate tag.
}

const structTag = "rampart"

// Fields returns the input and/or output fields from t.
//
// Fields are declared with the rampart struct tag:
//
//   type Resource struct {
//       Input  string `rampart:"input"`
//       Token  string `rampart:"input,required,secret"`
//       Output string `rampart:"output"`
//   }
//
// The external name for a field is its name in snake_case, or the value of
// the name tag when set. Secret values are never logged and are redacted
// when the resource is persisted.
//
// Panics if:
//  Target is not a struct.
//  A tagged field is unexported.
//  A tag direction is not input or output.
//  A tag attribute is not required or secret.
func Fields(target reflect.Type, dir FieldDirection) []Field {
	if target.Kind() != reflect.Struct {
		panic(fmt.Sprintf("Target must be a struct, not %s", target.Kind()))
	}
	var fields []Field
	for i := 0; i < target.NumField(); i++ {
		f := target.Field(i)
		tag, ok := f.Tag.Lookup(structTag)
		if !ok {
			continue
		}
		if f.PkgPath != "" {
			panic(fmt.Sprintf("Unexported field %q tagged as %s", f.Name, tag))
		}
		parts := strings.Split(tag, ",")
		var d FieldDirection
		switch parts[0] {
		case "input":
			d = Input
		case "output":
			d = Output
		default:
			panic(fmt.Sprintf("Field %q direction must be input or output, not %q", f.Name, parts[0]))
		}
		if d == Input && !dir.Input() {
			continue
		}
		if d == Output && !dir.Output() {
			continue
		}
		field := Field{
			Dir:   d,
			Name:  fieldName(f),
			Index: i,
			Type:  f.Type,
			Rules: f.Tag.Get("validate"),
		}
		for _, attr := range parts[1:] {
			switch attr {
			case "required":
				field.Required = true
			case "secret":
				field.Secret = true
			default:
				panic(fmt.Sprintf("Field %q has unknown attribute %q", f.Name, attr))
			}
		}
		fields = append(fields, field)
	}
	return fields
}
