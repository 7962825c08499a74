package hash_test

import (
	"testing"

	"github.com/rampart/rampart/resource/hash"
)

type site struct {
	Name    string            `rampart:"input"`
	Origins []string          `rampart:"input"`
	Token   string            `rampart:"input,secret"`
	Tags    map[string]string `rampart:"input"`
	TTL     *int              `rampart:"input"`

	URL string `rampart:"output"`
}

func TestCompute_deterministic(t *testing.T) {
	ttl := 60
	a := site{
		Name:    "example",
		Origins: []string{"a.example.com", "b.example.com"},
		Token:   "secret",
		Tags:    map[string]string{"env": "prod", "team": "edge"},
		TTL:     &ttl,
	}
	b := a
	b.Tags = map[string]string{"team": "edge", "env": "prod"}

	if hash.Compute(a) != hash.Compute(b) {
		t.Errorf("Hashes differ for equal values")
	}
}

func TestCompute_changes(t *testing.T) {
	ttl := 60
	base := func() site {
		return site{
			Name:    "example",
			Origins: []string{"a.example.com", "b.example.com"},
			Token:   "secret",
			TTL:     &ttl,
		}
	}

	tests := []struct {
		name   string
		modify func(*site)
	}{
		{"Name", func(s *site) { s.Name = "other" }},
		{"OriginAdded", func(s *site) { s.Origins = append(s.Origins, "c.example.com") }},
		{"OriginOrder", func(s *site) { s.Origins = []string{"b.example.com", "a.example.com"} }},
		{"Secret", func(s *site) { s.Token = "rotated" }},
		{"NilPointer", func(s *site) { s.TTL = nil }},
	}

	want := hash.Compute(base())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.modify(&s)
			if got := hash.Compute(s); got == want {
				t.Errorf("Hash did not change")
			}
		})
	}
}

func TestCompute_outputsExcluded(t *testing.T) {
	a := site{Name: "example"}
	b := site{Name: "example", URL: "https://example.com"}

	if hash.Compute(a) != hash.Compute(b) {
		t.Errorf("Output field contributed to hash")
	}
}

func TestCompute_pointerTarget(t *testing.T) {
	s := site{Name: "example"}
	if hash.Compute(s) != hash.Compute(&s) {
		t.Errorf("Hashes differ for value and pointer to value")
	}
}
