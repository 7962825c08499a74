package graph

import (
	"reflect"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// An Expression produces the value for a single input field. It may combine
// literals with references to fields on other resources, such as
//
//   service_id = cdn.id
//   comment    = "origins for ${site.name}"
//
// Expressions are evaluated late, once the resources they reference have
// been applied and their field values are known.
type Expression struct {
	hcl.Expression
}

// References returns the names of the resources the expression refers to.
// The returned names are unique, in the order they first appear in the
// expression.
func (e Expression) References() []string {
	vars := e.Expression.Variables()
	seen := make(map[string]struct{}, len(vars))
	var names []string
	for _, v := range vars {
		name := v.RootName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// An EvalContext provides values for resolving references when evaluating an
// expression.
type EvalContext struct {
	// Variables contains field values of parent resources, keyed by resource
	// name and field name.
	Variables map[string]map[string]interface{}
}

// Value evaluates the expression and stores the result in target, which must
// be a non-nil pointer. The result is converted to the target type when the
// types do not match exactly.
//
// Returns an error if the expression references a value that is not present
// in ctx.
func (e Expression) Value(ctx *EvalContext, target interface{}) error {
	refs := make(map[string]map[string]cty.Value)
	for _, t := range e.Expression.Variables() {
		name := t.RootName()
		if len(t) < 2 {
			return errors.Errorf("reference to %q must include a field", name)
		}
		attr, ok := t[1].(hcl.TraverseAttr)
		if !ok {
			return errors.Errorf("reference to %q must access a field by name", name)
		}
		var val interface{}
		found := false
		if ctx != nil {
			if fields, ok := ctx.Variables[name]; ok {
				val, found = fields[attr.Name]
			}
		}
		if !found {
			return errors.Errorf("value for %s.%s is not available", name, attr.Name)
		}
		ty, err := gocty.ImpliedType(val)
		if err != nil {
			return errors.Wrapf(err, "imply type for %s.%s", name, attr.Name)
		}
		cv, err := gocty.ToCtyValue(val, ty)
		if err != nil {
			return errors.Wrapf(err, "convert %s.%s", name, attr.Name)
		}
		if refs[name] == nil {
			refs[name] = make(map[string]cty.Value)
		}
		refs[name][attr.Name] = cv
	}

	vars := make(map[string]cty.Value, len(refs))
	for name, vals := range refs {
		vars[name] = cty.ObjectVal(vals)
	}

	v, diags := e.Expression.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return diags
	}

	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return errors.Wrap(err, "imply target type")
	}
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return errors.Wrap(err, "convert value")
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return errors.Wrap(err, "set value")
	}
	return nil
}

// Variables returns the referenceable field values of a resource definition,
// keyed by field name.
//
// Secret fields are excluded so that their values cannot flow into fields of
// other resources, where they would no longer be redacted.
func Variables(def resource.Definition) map[string]interface{} {
	v := reflect.Indirect(reflect.ValueOf(def))
	fields := resource.Fields(v.Type(), resource.IO)
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		if f.Secret {
			continue
		}
		out[f.Name] = v.Field(f.Index).Interface()
	}
	return out
}
