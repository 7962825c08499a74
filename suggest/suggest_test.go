package suggest_test

import (
	"fmt"
	"testing"

	"github.com/rampart/rampart/suggest"
)

func ExampleString() {
	userProvided := "sigsci_edgedeployment"
	candidates := []string{"sigsci_edge_deployment", "fastly_service"}

	suggestion := suggest.String(userProvided, candidates)
	fmt.Printf("Did you mean %q?", suggestion)
	// Output: Did you mean "sigsci_edge_deployment"?
}

func TestString(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{"Exact", "foo", []string{"bar", "foo"}, "foo"},
		{"CloseShort", "boo", []string{"bar", "foo"}, "foo"},
		{"TooFar", "go", []string{"bar", "foo"}, ""},
		{"MissingUnderscore", "fastlyservice", []string{"fastly_service", "sigsci_edge_deployment"}, "fastly_service"},
		{"ClosestWins", "Lorem lipsam", []string{"Lorem ipsum", "Lorem dolor"}, "Lorem ipsum"},
		{"NoCandidates", "foo", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.String(tt.input, tt.candidates)
			if got != tt.want {
				t.Errorf("String(%q, %v) = %q, want %q", tt.input, tt.candidates, got, tt.want)
			}
		})
	}
}
