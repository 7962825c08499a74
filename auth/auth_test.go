package auth_test

import (
	"os"
	"strings"
	"testing"

	"github.com/rampart/rampart/auth"
	"github.com/rampart/rampart/resource"
)

var _ resource.AuthProvider = auth.Env{}

func TestEnv_Sigsci(t *testing.T) {
	defer setenv(t, auth.EnvSigsciEmail, "user@example.com")()
	defer setenv(t, auth.EnvSigsciToken, "token123")()

	email, token, err := auth.Env{}.Sigsci()
	if err != nil {
		t.Fatalf("Sigsci() err = %v", err)
	}
	if email != "user@example.com" || token != "token123" {
		t.Errorf("Sigsci() = %q, %q", email, token)
	}
}

func TestEnv_Sigsci_notSet(t *testing.T) {
	defer setenv(t, auth.EnvSigsciEmail, "")()
	defer setenv(t, auth.EnvSigsciToken, "")()

	_, _, err := auth.Env{}.Sigsci()
	if err == nil {
		t.Fatal("Sigsci() err = nil, want error")
	}
	if !strings.Contains(err.Error(), auth.EnvSigsciEmail) {
		t.Errorf("Error %q does not name the missing variable", err)
	}
}

func TestEnv_Fastly(t *testing.T) {
	defer setenv(t, auth.EnvFastlyKey, "key123")()

	key, err := auth.Env{}.Fastly()
	if err != nil {
		t.Fatalf("Fastly() err = %v", err)
	}
	if key != "key123" {
		t.Errorf("Fastly() = %q", key)
	}
}

func TestEnv_Fastly_notSet(t *testing.T) {
	defer setenv(t, auth.EnvFastlyKey, "")()

	_, err := auth.Env{}.Fastly()
	if err == nil {
		t.Fatal("Fastly() err = nil, want error")
	}
	if !strings.Contains(err.Error(), auth.EnvFastlyKey) {
		t.Errorf("Error %q does not name the missing variable", err)
	}
}

// setenv sets an environment variable and returns a func that restores the
// previous value. An empty value unsets the variable.
func setenv(t *testing.T, key, value string) func() {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
	return func() {
		if had {
			os.Setenv(key, prev)
			return
		}
		os.Unsetenv(key)
	}
}
