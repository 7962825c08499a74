package decoder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hclpack"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/resource"
)

// decodeInput decodes the configuration body into the definition's input
// fields.
//
// Attributes with static values are assigned directly. Attributes that
// contain references to other resources are returned as dependencies to
// resolve later. Values in nested blocks must be static.
func decodeInput(body hcl.Body, def resource.Definition) ([]graph.Dependency, hcl.Diagnostics) {
	val := reflect.Indirect(reflect.ValueOf(def))
	fields := resource.Fields(val.Type(), resource.Input)

	cont, diags := body.Content(inputSchema(fields))
	if diags.HasErrors() {
		return nil, diags
	}

	var deps []graph.Dependency

	// Attributes
	for _, f := range fields {
		if isBlock(f) {
			continue
		}
		attr, ok := cont.Attributes[f.Name]
		if !ok {
			// Attribute was not set.
			continue
		}

		expr := attr.Expr
		if packed, ok := expr.(*hclpack.Expression); ok {
			// Parse once so later evaluations work on the native syntax tree.
			parsed, morediags := packed.Parse()
			if morediags.HasErrors() {
				diags = append(diags, morediags...)
				continue
			}
			expr = parsed
		}

		if len(expr.Variables()) > 0 {
			// The value refers to other resources. It is resolved when the
			// referenced resources have been applied.
			deps = append(deps, graph.Dependency{
				Field:      f.Name,
				Expression: graph.Expression{Expression: expr},
			})
			continue
		}

		target := val.Field(f.Index).Addr().Interface()
		diags = append(diags, gohcl.DecodeExpression(expr, nil, target)...)
	}

	// Blocks
	blocksByType := cont.Blocks.ByType()
	for _, f := range fields {
		if !isBlock(f) {
			continue
		}
		diags = append(diags, decodeBlocks(f.Name, blocksByType[f.Name], val.Field(f.Index))...)
	}

	return deps, dropUnknownValue(diags)
}

// dropUnknownValue removes diagnostics about unknown values. gohcl reports
// an expression that cannot be evaluated twice: once for the variable or
// function call that is not allowed, and once for the unknown value that
// results from it. The second diagnostic adds nothing.
func dropUnknownValue(diags hcl.Diagnostics) hcl.Diagnostics {
	out := diags[:0]
	for _, d := range diags {
		if d.Summary == "Unsuitable value type" && strings.Contains(d.Detail, "value must be known") {
			continue
		}
		out = append(out, d)
	}
	return out
}

// decodeBlocks decodes the blocks of a single type into the target field.
// A slice target captures any number of blocks, otherwise exactly one block
// is decoded. A missing block for a non-slice pointer target is skipped.
func decodeBlocks(name string, blocks hcl.Blocks, val reflect.Value) hcl.Diagnostics {
	typ := val.Type()

	if typ.Kind() == reflect.Slice {
		if len(blocks) == 0 {
			// Leave the field nil so a required field is reported as not
			// set by the validation gate.
			return nil
		}
		elem := typ.Elem()
		slice := reflect.MakeSlice(typ, len(blocks), len(blocks))
		var diags hcl.Diagnostics
		for i, b := range blocks {
			target := slice.Index(i)
			if elem.Kind() == reflect.Ptr {
				v := reflect.New(elem.Elem())
				target.Set(v)
				target = v.Elem()
			}
			diags = append(diags, decodeBlock(b, target)...)
		}
		val.Set(slice)
		return diags
	}

	if len(blocks) == 0 {
		// A missing block on a required field is reported by the validation
		// gate.
		return nil
	}

	if len(blocks) > 1 {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Duplicate %s block", name),
			Detail: fmt.Sprintf(
				"Only one %s block is allowed. Another was defined on line %d.",
				name, blocks[0].DefRange.Start.Line,
			),
			Subject: blocks[1].DefRange.Ptr(),
		}}
	}

	if typ.Kind() == reflect.Ptr {
		v := reflect.New(typ.Elem())
		diags := decodeBlock(blocks[0], v.Elem())
		val.Set(v)
		return diags
	}

	return decodeBlock(blocks[0], val)
}

// decodeBlock decodes a single block body into the target struct value.
// References to other resources are not supported inside a block.
func decodeBlock(block *hcl.Block, val reflect.Value) hcl.Diagnostics {
	return gohcl.DecodeBody(block.Body, nil, val.Addr().Interface())
}

func inputSchema(ff []resource.Field) *hcl.BodySchema {
	schema := &hcl.BodySchema{}
	for _, f := range ff {
		if isBlock(f) {
			schema.Blocks = append(schema.Blocks, hcl.BlockHeaderSchema{
				Type: f.Name,
			})
			continue
		}
		// All attributes are optional in the schema. The validation gate
		// reports missing required fields.
		schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{
			Name: f.Name,
		})
	}
	return schema
}

func isBlock(f resource.Field) bool {
	t := f.Type
	if t.Kind() == reflect.Ptr {
		// Optional
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct {
		return true
	}
	if t.Kind() == reflect.Slice {
		if t.Elem().Kind() == reflect.Struct {
			// Slice of structs
			return true
		}
		if t.Elem().Kind() == reflect.Ptr && t.Elem().Elem().Kind() == reflect.Struct {
			// Slice of struct pointers
			return true
		}
	}
	return false
}
