// Package auth resolves credentials for the vendor APIs used when
// provisioning resources.
package auth

import (
	"os"

	"github.com/pkg/errors"
)

// Environment variables for vendor credentials.
const (
	EnvSigsciEmail = "SIGSCI_EMAIL"
	EnvSigsciToken = "SIGSCI_TOKEN"
	EnvFastlyKey   = "FASTLY_API_KEY"
)

// Env provides credentials from environment variables.
//
// Values are read on every call. Secret inputs are redacted when resources
// are persisted, so operations that run against stored state (such as
// removing a resource after it left the config) refill their credentials
// from here.
type Env struct{}

// Sigsci returns the Signal Sciences API user email and access token from
// SIGSCI_EMAIL and SIGSCI_TOKEN.
func (Env) Sigsci() (email, token string, err error) {
	email = os.Getenv(EnvSigsciEmail)
	if email == "" {
		return "", "", errors.Errorf("%s not set", EnvSigsciEmail)
	}
	token = os.Getenv(EnvSigsciToken)
	if token == "" {
		return "", "", errors.Errorf("%s not set", EnvSigsciToken)
	}
	return email, token, nil
}

// Fastly returns the Fastly API key from FASTLY_API_KEY.
func (Env) Fastly() (key string, err error) {
	key = os.Getenv(EnvFastlyKey)
	if key == "" {
		return "", errors.Errorf("%s not set", EnvFastlyKey)
	}
	return key, nil
}
