package decoder

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcldec"
	"github.com/rampart/rampart/config"
	"github.com/rampart/rampart/graph"
	"github.com/rampart/rampart/resource"
	"github.com/rampart/rampart/suggest"
	"github.com/zclconf/go-cty/cty"
)

var rootSchema, _ = gohcl.ImpliedBodySchema(config.Root{})

// A ResourceRegistry is used for matching resource type names to resource
// implementations.
type ResourceRegistry interface {
	New(typename string) (resource.Definition, error)
	Types() []string
}

// DecodeContext is the context to use when decoding.
type DecodeContext struct {
	Resources ResourceRegistry
}

// a decoder maintains the state of a single decode job.
type decoder struct {
	graph *graph.Graph
	names map[string]*hcl.Range
	deps  map[string][]graph.Dependency
}

// DecodeBody decodes a given raw configuration body into the target graph.
//
// Attributes with static values are assigned to the resource definitions
// directly. Attributes that refer to fields on other resources are added to
// the graph as dependencies; their values are resolved when the graph is
// reconciled and the referenced resources have been applied.
//
// Missing required inputs are not reported here. The validation gate checks
// them before a resource is applied, so that all failures for a resource are
// reported together.
func DecodeBody(body hcl.Body, ctx *DecodeContext, target *graph.Graph) (*config.Project, hcl.Diagnostics) {
	cont, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	dec := &decoder{
		graph: target,
		names: make(map[string]*hcl.Range),
		deps:  make(map[string][]graph.Dependency),
	}

	var project *config.Project
	for _, b := range cont.Blocks {
		switch b.Type {
		case "project":
			if req := requireLabels(b, "project name"); req.HasErrors() {
				diags = append(diags, req...)
				continue
			}
			project = &config.Project{}
			diags = append(diags, gohcl.DecodeBody(b.Body, nil, project)...)
			project.Name = b.Labels[0]
		case "resource":
			if req := requireLabels(b, "resource name"); req.HasErrors() {
				diags = append(diags, req...)
				continue
			}
			diags = append(diags, dec.decodeResource(b, ctx)...)
		}
	}

	if project == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Project not set",
			Detail:   "The configuration must contain a project block.",
			Subject:  body.MissingItemRange().Ptr(),
		})
	}

	diags = append(diags, dec.resolveReferences()...)

	return project, diags
}

func (d *decoder) decodeResource(block *hcl.Block, ctx *DecodeContext) hcl.Diagnostics {
	resname := block.Labels[0]

	if ex, ok := d.names[resname]; ok {
		return []*hcl.Diagnostic{{
			Severity: hcl.DiagError,
			Summary:  "Duplicate resource",
			Detail:   fmt.Sprintf("Another resource %q was defined in %s on line %d.", resname, ex.Filename, ex.Start.Line),
			Subject:  block.DefRange.Ptr(),
		}}
	}
	d.names[resname] = block.DefRange.Ptr()

	// Decode resource body. Will return errors for syntax errors.
	var spec config.Resource
	diags := gohcl.DecodeBody(block.Body, nil, &spec)
	if diags.HasErrors() {
		// Only return the first diagnostic. If an expression was set on the
		// type attribute, it would otherwise return two diagnostics: one for
		// the variable not being allowed and another for the variable not
		// being defined.
		return diags[:1]
	}

	// Get resource definition based on resource type.
	def, err := ctx.Resources.New(spec.Type)
	if err != nil {
		rng := hcldec.SourceRange(block.Body, &hcldec.AttrSpec{Name: "type", Type: cty.String})
		diag := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Resource not supported",
			Subject:  rng.Ptr(),
		}
		type notsupported interface{ NotSupported() }
		if _, ok := err.(notsupported); ok {
			if s := suggest.String(spec.Type, ctx.Resources.Types()); s != "" {
				diag.Detail = fmt.Sprintf("Did you mean %q?", s)
			}
		}
		return hcl.Diagnostics{diag}
	}

	deps, diags := decodeInput(spec.Config, def)
	if diags.HasErrors() {
		// An error occurred in decoding attributes or blocks. Do not add the
		// resource to the graph.
		return diags
	}

	d.graph.AddResource(&resource.Resource{Name: resname, Def: def})
	if len(deps) > 0 {
		d.deps[resname] = deps
	}

	return diags
}

// resolveReferences checks the references in all collected dependencies and
// adds the valid ones to the graph. The dependency lists on the resources
// are set based on the resources their expressions refer to.
func (d *decoder) resolveReferences() hcl.Diagnostics {
	var diags hcl.Diagnostics

	names := make([]string, 0, len(d.deps))
	for name := range d.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := d.graph.Resources[name]
		seen := make(map[resource.Dependency]struct{})
		for _, dep := range d.deps[name] {
			morediags := d.checkReference(name, dep)
			diags = append(diags, morediags...)
			if morediags.HasErrors() {
				continue
			}
			d.graph.AddDependency(name, dep)
			for _, parentName := range dep.Parents() {
				parent := d.graph.Resources[parentName]
				pd := resource.Dependency{Type: parent.Def.Type(), Name: parentName}
				if _, ok := seen[pd]; ok {
					continue
				}
				seen[pd] = struct{}{}
				res.Deps = append(res.Deps, pd)
			}
		}
	}
	return diags
}

// checkReference validates all references in the dependency's expression,
// ensuring the referenced resources exist and the referenced fields are set
// on them.
func (d *decoder) checkReference(child string, dep graph.Dependency) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, t := range dep.Expression.Variables() {
		name := t.RootName()

		parent, ok := d.graph.Resources[name]
		if !ok {
			detail := fmt.Sprintf("An object with name %q is not defined.", name)
			if s := suggest.String(name, d.resourceNames()); s != "" {
				detail = fmt.Sprintf("%s Did you mean %q?", detail, s)
			}
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Referenced value not found",
				Detail:   detail,
				Subject:  t.SourceRange().Ptr(),
				Context:  dep.Expression.Range().Ptr(),
			})
			continue
		}

		if name == child {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Self reference",
				Detail:   fmt.Sprintf("Resource %q cannot reference its own fields.", name),
				Subject:  t.SourceRange().Ptr(),
				Context:  dep.Expression.Range().Ptr(),
			})
			continue
		}

		fieldName, morediags := referencedField(t)
		if morediags.HasErrors() {
			diags = append(diags, morediags...)
			continue
		}

		fields := resource.Fields(reflect.Indirect(reflect.ValueOf(parent.Def)).Type(), resource.IO)
		var match *resource.Field
		for i := range fields {
			if fields[i].Name == fieldName {
				match = &fields[i]
				break
			}
		}
		if match == nil {
			detail := fmt.Sprintf("Object %s does not have a field %q.", name, fieldName)
			if s := suggest.String(fieldName, fieldNames(fields)); s != "" {
				detail = fmt.Sprintf("%s Did you mean %q?", detail, s)
			}
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Referenced value not found",
				Detail:   detail,
				Subject:  t.SourceRange().Ptr(),
				Context:  dep.Expression.Range().Ptr(),
			})
			continue
		}
		if match.Secret {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Secret value cannot be referenced",
				Detail: fmt.Sprintf(
					"The field %q on %s holds a secret value. Secret values cannot be used as inputs to other resources.",
					fieldName, name,
				),
				Subject: t.SourceRange().Ptr(),
				Context: dep.Expression.Range().Ptr(),
			})
			continue
		}
	}
	return diags
}

// referencedField returns the field name in a {name}.{field} reference.
func referencedField(t hcl.Traversal) (string, hcl.Diagnostics) {
	if len(t) < 2 {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   "A reference must have 2 fields: {name}.{field}.",
			Subject:  t.SourceRange().Ptr(),
		}}
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   "A reference must access a field by name.",
			Subject:  t.SourceRange().Ptr(),
		}}
	}
	return attr.Name, nil
}

func (d *decoder) resourceNames() []string {
	names := make([]string, 0, len(d.graph.Resources))
	for name := range d.graph.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fieldNames returns the names of the fields that may be referenced.
func fieldNames(ff []resource.Field) []string {
	names := make([]string, 0, len(ff))
	for _, f := range ff {
		if f.Secret {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

func requireLabels(block *hcl.Block, names ...string) hcl.Diagnostics {
	for i, name := range names {
		title := strings.ToUpper(name[:1]) + name[1:]
		label := block.Labels[i]
		if label == "" {
			return hcl.Diagnostics{
				&hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  fmt.Sprintf("%s not set", title),
					Detail:   fmt.Sprintf("A %s cannot be blank.", name),
					Subject:  block.LabelRanges[i].Ptr(),
					Context:  block.DefRange.Ptr(),
				},
			}
		}
	}
	return nil
}
