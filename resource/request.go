package resource

import (
	"github.com/rampart/rampart/httpclient"
	"go.uber.org/zap"
)

// An AuthProvider provides credentials for the vendor APIs used when
// provisioning a resource.
//
// Credentials are resolved from the environment on every operation rather
// than read back from persisted state, where secret values are redacted.
type AuthProvider interface {
	// Sigsci returns the Signal Sciences API user email and access token.
	Sigsci() (email, token string, err error)

	// Fastly returns the Fastly API key.
	Fastly() (key string, err error)
}

// A CreateRequest is passed to a resource's Create method when a new
// resource is being created.
type CreateRequest struct {
	Auth AuthProvider

	// HTTP is the client for vendor API calls, constructed once at process
	// start. If nil, resources fall back to a default client.
	HTTP *httpclient.Client

	// Logger for operation progress. If nil, logs are discarded.
	Logger *zap.Logger
}

// UpdateRequest converts the create to an update request, with previous set
// as the prior state. Used by resources that create by updating from an
// all-empty prior state.
func (r *CreateRequest) UpdateRequest(previous Definition) *UpdateRequest {
	return &UpdateRequest{
		Auth:     r.Auth,
		HTTP:     r.HTTP,
		Logger:   r.Logger,
		Previous: previous,
	}
}

// An UpdateRequest is passed to a resource's Update method when an existing
// resource is being updated.
//
// Previous contains the previous version of the resource. The type for
// Previous will match the resource type.
type UpdateRequest struct {
	Auth   AuthProvider
	HTTP   *httpclient.Client
	Logger *zap.Logger

	Previous Definition
}

// A DeleteRequest is passed to a resource when it is being deleted.
type DeleteRequest struct {
	Auth   AuthProvider
	HTTP   *httpclient.Client
	Logger *zap.Logger
}
