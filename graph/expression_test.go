package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/rampart/rampart/resource"
)

func parseExpr(t *testing.T, src string) Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		t.Fatal(diags)
	}
	return Expression{Expression: expr}
}

func TestExpression_References(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"Literal", `"static"`, nil},
		{"Reference", `cdn.id`, []string{"cdn"}},
		{"Template", `"svc-${cdn.id}"`, []string{"cdn"}},
		{"MultipleUnique", `"${a.id}-${b.id}-${a.name}"`, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := parseExpr(t, tt.expr)
			if diff := cmp.Diff(expr.References(), tt.want); diff != "" {
				t.Errorf("References() (-got +want)\n%s", diff)
			}
		})
	}
}

func TestExpression_Value(t *testing.T) {
	ctx := &EvalContext{
		Variables: map[string]map[string]interface{}{
			"cdn": {
				"id":      "SVC123",
				"version": 2,
			},
		},
	}

	t.Run("Reference", func(t *testing.T) {
		var got string
		if err := parseExpr(t, `cdn.id`).Value(ctx, &got); err != nil {
			t.Fatalf("Value() err = %v", err)
		}
		if got != "SVC123" {
			t.Errorf("Value = %q, want %q", got, "SVC123")
		}
	})

	t.Run("Template", func(t *testing.T) {
		var got string
		if err := parseExpr(t, `"svc-${cdn.id}"`).Value(ctx, &got); err != nil {
			t.Fatalf("Value() err = %v", err)
		}
		if got != "svc-SVC123" {
			t.Errorf("Value = %q, want %q", got, "svc-SVC123")
		}
	})

	t.Run("ConvertToString", func(t *testing.T) {
		var got string
		if err := parseExpr(t, `cdn.version`).Value(ctx, &got); err != nil {
			t.Fatalf("Value() err = %v", err)
		}
		if got != "2" {
			t.Errorf("Value = %q, want %q", got, "2")
		}
	})

	t.Run("Int", func(t *testing.T) {
		var got int
		if err := parseExpr(t, `cdn.version`).Value(ctx, &got); err != nil {
			t.Fatalf("Value() err = %v", err)
		}
		if got != 2 {
			t.Errorf("Value = %d, want 2", got)
		}
	})

	t.Run("MissingValue", func(t *testing.T) {
		var got string
		err := parseExpr(t, `cdn.missing`).Value(ctx, &got)
		if err == nil {
			t.Fatal("Value() err = nil, want error for missing value")
		}
		if !strings.Contains(err.Error(), "cdn.missing") {
			t.Errorf("Error %q does not name the missing value", err)
		}
	})

	t.Run("NilContext", func(t *testing.T) {
		var got string
		if err := parseExpr(t, `cdn.id`).Value(nil, &got); err == nil {
			t.Fatal("Value() err = nil, want error for unresolvable reference")
		}
	})

	t.Run("LiteralWithNilContext", func(t *testing.T) {
		var got string
		if err := parseExpr(t, `"static"`).Value(nil, &got); err != nil {
			t.Fatalf("Value() err = %v", err)
		}
		if got != "static" {
			t.Errorf("Value = %q, want %q", got, "static")
		}
	})
}

type webService struct {
	Name   string `rampart:"input,required"`
	APIKey string `rampart:"input,required,secret"`
	ID     string `rampart:"output"`
}

func (s *webService) Type() string { return "web_service" }

func (s *webService) Create(ctx context.Context, r *resource.CreateRequest) error { return nil }
func (s *webService) Update(ctx context.Context, r *resource.UpdateRequest) error { return nil }
func (s *webService) Delete(ctx context.Context, r *resource.DeleteRequest) error { return nil }

func TestVariables(t *testing.T) {
	def := &webService{
		Name:   "www",
		APIKey: "secret-key",
		ID:     "SVC123",
	}

	got := Variables(def)
	want := map[string]interface{}{
		"name": "www",
		"id":   "SVC123",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Variables() (-got +want)\n%s", diff)
	}
}
