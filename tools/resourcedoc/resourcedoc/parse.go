// Package resourcedoc extracts resource definitions from provider source
// code for generating reference documentation.
package resourcedoc

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/structtag"
	"github.com/pkg/errors"
)

// A Resource is a resource definition parsed from source code.
type Resource struct {
	Struct  string // Go struct name.
	Type    string // Resource type name, taken from the Type method.
	Doc     string
	Inputs  []Field
	Outputs []Field
}

// A Field is a single input or output on a resource.
type Field struct {
	Name     string // External field name, as used in configuration files.
	Type     string // Rendered Go type.
	Doc      string
	Required bool
	Secret   bool
}

// Parse parses Go source code and returns the resource definitions declared
// in it. A struct is a resource definition when at least one of its fields
// carries a rampart struct tag.
func Parse(r io.Reader) ([]Resource, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", r, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	var resources []Resource
	index := make(map[string]int)

	for _, d := range file.Decls {
		decl, ok := d.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range decl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			res, err := parseStruct(ts.Name.Name, decl, st)
			if err != nil {
				return nil, errors.Wrapf(err, "parse %s", ts.Name.Name)
			}
			if res == nil {
				continue
			}
			index[res.Struct] = len(resources)
			resources = append(resources, *res)
		}
	}

	// Attach the type names from the structs' Type methods.
	for _, d := range file.Decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "Type" || fn.Recv == nil {
			continue
		}
		i, ok := index[recvName(fn.Recv)]
		if !ok {
			continue
		}
		if t := returnedString(fn); t != "" {
			resources[i].Type = t
		}
	}

	return resources, nil
}

func parseStruct(name string, decl *ast.GenDecl, st *ast.StructType) (*Resource, error) {
	res := &Resource{
		Struct: name,
		Doc:    strings.TrimSpace(decl.Doc.Text()),
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 || f.Tag == nil {
			continue
		}
		tags, err := structtag.Parse(strings.Trim(f.Tag.Value, "`"))
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s struct tag", f.Names[0].Name)
		}
		ft, err := tags.Get("rampart")
		if err != nil {
			// Not an input or output.
			continue
		}

		field := Field{
			Name: externalName(f.Names[0].Name, tags),
			Type: typeString(f.Type),
			Doc:  strings.TrimSpace(f.Doc.Text()),
		}
		for _, opt := range ft.Options {
			switch opt {
			case "required":
				field.Required = true
			case "secret":
				field.Secret = true
			}
		}

		switch ft.Name {
		case "input":
			res.Inputs = append(res.Inputs, field)
		case "output":
			res.Outputs = append(res.Outputs, field)
		}
	}
	if len(res.Inputs) == 0 && len(res.Outputs) == 0 {
		return nil, nil
	}
	return res, nil
}

var (
	reFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	reAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// externalName returns the field name used in configuration files, either
// from a name tag or derived from the Go field name. The conversion must
// match the resource package's field naming.
func externalName(goName string, tags *structtag.Tags) string {
	if t, err := tags.Get("name"); err == nil {
		return t.Name
	}
	snake := reFirstCap.ReplaceAllString(goName, "${1}_${2}")
	snake = reAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// typeString renders a field's type expression as it appears in source.
func typeString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + typeString(e.X)
	case *ast.ArrayType:
		return "[]" + typeString(e.Elt)
	case *ast.MapType:
		return "map[" + typeString(e.Key) + "]" + typeString(e.Value)
	case *ast.SelectorExpr:
		return typeString(e.X) + "." + e.Sel.Name
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func recvName(recv *ast.FieldList) string {
	if len(recv.List) == 0 {
		return ""
	}
	t := recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	if ident, ok := t.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// returnedString returns the string literal returned by a method that
// consists of a single return statement.
func returnedString(fn *ast.FuncDecl) string {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return ""
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return ""
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	return strings.Trim(lit.Value, `"`)
}
