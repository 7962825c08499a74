package validation_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rampart/rampart/resource"
	"github.com/rampart/rampart/resource/validation"
)

type binding struct {
	Site    string   `rampart:"input,required"`
	Email   string   `rampart:"input,required"`
	Token   string   `rampart:"input,required,secret"`
	Origins []string `rampart:"input,required"`
	Comment string   `rampart:"input"`
	TTL     *int     `rampart:"input" validate:"omitempty,gte=0"`

	URL string `rampart:"output"`
}

func (b *binding) Type() string { return "binding" }
func (b *binding) Create(ctx context.Context, r *resource.CreateRequest) error { return nil }
func (b *binding) Update(ctx context.Context, r *resource.UpdateRequest) error { return nil }
func (b *binding) Delete(ctx context.Context, r *resource.DeleteRequest) error { return nil }

func TestCheck(t *testing.T) {
	neg := -1

	tests := []struct {
		name string
		def  *binding
		want []validation.FieldFailure
	}{
		{
			name: "Valid",
			def: &binding{
				Site:    "example.com",
				Email:   "user@example.com",
				Token:   "token",
				Origins: []string{"origin.example.com"},
			},
			want: nil,
		},
		{
			name: "AllMissing",
			def:  &binding{},
			want: []validation.FieldFailure{
				{Field: "site", Reason: "site is required"},
				{Field: "email", Reason: "email is required"},
				{Field: "token", Reason: "token is required"},
				{Field: "origins", Reason: "origins is required"},
			},
		},
		{
			name: "EmptyOriginList",
			def: &binding{
				Site:  "example.com",
				Email: "user@example.com",
				Token: "token",
			},
			want: []validation.FieldFailure{
				{Field: "origins", Reason: "origins is required"},
			},
		},
		{
			name: "OptionalFieldSkipped",
			def: &binding{
				Site:    "example.com",
				Email:   "user@example.com",
				Token:   "token",
				Origins: []string{"origin.example.com"},
				TTL:     nil,
			},
			want: nil,
		},
		{
			name: "RuleWithParam",
			def: &binding{
				Site:    "example.com",
				Email:   "user@example.com",
				Token:   "token",
				Origins: []string{"origin.example.com"},
				TTL:     &neg,
			},
			want: []validation.FieldFailure{
				{Field: "ttl", Reason: "ttl must be 0 or more"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Check(tt.def)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Check() err = %v, want nil", err)
				}
				return
			}
			verr, ok := err.(*validation.Error)
			if !ok {
				t.Fatalf("Check() err = %T, want *validation.Error", err)
			}
			if diff := cmp.Diff(verr.Failures, tt.want); diff != "" {
				t.Errorf("Failures (-got +want)\n%s", diff)
			}
		})
	}
}

func TestError_message(t *testing.T) {
	err := &validation.Error{Failures: []validation.FieldFailure{
		{Field: "site", Reason: "site is required"},
		{Field: "token", Reason: "token is required"},
	}}
	want := "site is required; token is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
