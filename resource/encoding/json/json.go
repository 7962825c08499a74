package json

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
)

// The Registry is used to get the type of resources for decoding the definition.
type Registry interface {
	Type(name string) reflect.Type
}

// Encoder encodes and decodes resources using json encoding.
//
// Secret values are replaced with resource.Redacted in the encoded output. A
// resource decoded back from storage carries the redaction marker in place
// of the original value.
type Encoder struct {
	Registry Registry
}

type jsonResource struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Type string           `json:"type"`
	Hash string           `json:"hash,omitempty"`
	Deps []jsonDependency `json:"deps,omitempty"`
	Def  json.RawMessage  `json:"def"`
}

type jsonDependency struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// MarshalResource marshals a resource to json.
func (enc *Encoder) MarshalResource(res resource.Resource) ([]byte, error) {
	def, err := marshalDef(res.Def)
	if err != nil {
		return nil, errors.Wrap(err, "marshal definition")
	}
	deps := make([]jsonDependency, len(res.Deps))
	for i, d := range res.Deps {
		deps[i] = jsonDependency{Type: d.Type, Name: d.Name}
	}
	return json.Marshal(jsonResource{
		ID:   res.ID,
		Name: res.Name,
		Type: res.Def.Type(),
		Hash: res.Hash,
		Deps: deps,
		Def:  def,
	})
}

// UnmarshalResource unmarshals a resource from json.
//
// The type embedded in the resource byte slice must be available in the
// registry.
func (enc *Encoder) UnmarshalResource(b []byte) (resource.Resource, error) {
	var res jsonResource
	if err := json.Unmarshal(b, &res); err != nil {
		return resource.Resource{}, errors.Wrap(err, "unmarshal")
	}
	t := enc.Registry.Type(res.Type)
	if t == nil {
		return resource.Resource{}, errors.Errorf("type not registered: %q", res.Type)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	v := reflect.New(t)
	if err := unmarshalDef(res.Def, v.Elem()); err != nil {
		return resource.Resource{}, errors.Wrapf(err, "unmarshal %s definition", res.Type)
	}
	var deps []resource.Dependency
	for _, d := range res.Deps {
		deps = append(deps, resource.Dependency{Type: d.Type, Name: d.Name})
	}
	return resource.Resource{
		ID:   res.ID,
		Name: res.Name,
		Def:  v.Interface().(resource.Definition),
		Deps: deps,
		Hash: res.Hash,
	}, nil
}

// marshalDef marshals the input and output fields of a definition, keyed by
// field name. Secret values are redacted.
func marshalDef(def resource.Definition) (json.RawMessage, error) {
	v := reflect.Indirect(reflect.ValueOf(def))
	fields := resource.Fields(v.Type(), resource.IO)
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if f.Secret {
			out[f.Name] = redact(v.Field(f.Index))
			continue
		}
		out[f.Name] = v.Field(f.Index).Interface()
	}
	return json.Marshal(out)
}

func unmarshalDef(raw json.RawMessage, v reflect.Value) error {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return err
	}
	for _, f := range resource.Fields(v.Type(), resource.IO) {
		msg, ok := values[f.Name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, v.Field(f.Index).Addr().Interface()); err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
	}
	return nil
}

// redact replaces a secret value with the redaction marker. Unset values
// are kept as is so that presence round-trips. Map keys are kept, every
// value is redacted.
func redact(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return ""
		}
		return resource.Redacted
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return redact(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]interface{}, v.Len())
		for _, k := range v.MapKeys() {
			out[fmt.Sprint(k.Interface())] = redact(v.MapIndex(k))
		}
		return out
	default:
		return resource.Redacted
	}
}
