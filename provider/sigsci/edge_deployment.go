package sigsci

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Signal Sciences dashboard API endpoint used when no
// override is set.
const DefaultBaseURL = "https://dashboard.signalsciences.net/api/v0"

// EdgeDeployment binds a Fastly service to a Signal Sciences site so that
// traffic through the service is inspected by the site's edge WAF.
//
// The binding is activated at full traffic percentage when established, and
// the service's origins are synced to the site on every update.
type EdgeDeployment struct {
	// Inputs

	// Origins lists the origin hosts to sync to the edge deployment.
	//
	// Order is preserved when comparing state, so reordering origins counts
	// as a change even when the set of hosts is the same.
	Origins []string `rampart:"input,required"`

	// SiteName is the Signal Sciences site the service is bound to.
	SiteName string `rampart:"input,required"`

	// ServiceID is the id of the Fastly service to bind.
	ServiceID string `rampart:"input,required"`

	// Email is the Signal Sciences API user.
	Email string `rampart:"input,required"`

	// AuthToken is the API access token for Email.
	AuthToken string `rampart:"input,required,secret"`

	// FastlyAPIKey is the Fastly API key the WAF vendor uses to manage the
	// bound service on the user's behalf.
	FastlyAPIKey string `rampart:"input,required,secret"`

	// Outputs

	// APIURL is the edge deployment endpoint for the bound service.
	APIURL string `rampart:"output" name:"api_url"`

	// Headers contains the authentication headers for the edge deployment
	// endpoint, derived from Email, AuthToken and FastlyAPIKey. Header
	// values are redacted in storage; the keys are kept.
	Headers map[string]string `rampart:"output,secret"`

	sigsciService
}

func (p *EdgeDeployment) Type() string { return "sigsci_edge_deployment" }

// Create establishes the binding. The vendor API has no separate create
// call; creating the binding is identical to updating it from an empty
// prior state.
func (p *EdgeDeployment) Create(ctx context.Context, r *resource.CreateRequest) error {
	return p.Update(ctx, r.UpdateRequest(&EdgeDeployment{}))
}

// Update applies the desired binding state.
//
// The service is (re)bound to the site only when the endpoint changed,
// which happens when SiteName or ServiceID changed. Origins are synced on
// every call, whether or not anything else changed.
func (p *EdgeDeployment) Update(ctx context.Context, r *resource.UpdateRequest) error {
	prev := r.Previous.(*EdgeDeployment)

	p.APIURL = p.endpoint()
	p.Headers = p.authHeaders()

	c := p.service(r.HTTP)

	if p.APIURL != prev.APIURL {
		body := map[string]interface{}{
			"activateVersion": true,
			"percentEnabled":  100,
		}
		if _, err := c.Request(ctx, http.MethodPut, p.APIURL, p.Headers, body); err != nil {
			return errors.Wrap(err, "bind edge deployment")
		}
	}

	origins := map[string]interface{}{"origins": p.Origins}
	if _, err := c.Request(ctx, http.MethodPut, p.APIURL+"/backends", p.Headers, origins); err != nil {
		return errors.Wrap(err, "sync origins")
	}

	return nil
}

// Delete removes the binding from the site.
//
// A binding that was never established has no endpoint recorded and is
// deleted without a remote call. Remote failures are logged and swallowed;
// the binding may already be gone, and a failed unbind never blocks
// teardown.
func (p *EdgeDeployment) Delete(ctx context.Context, r *resource.DeleteRequest) error {
	if p.APIURL == "" || len(p.Headers) == 0 {
		return nil
	}

	c := p.service(r.HTTP)
	if _, err := c.Request(ctx, http.MethodDelete, p.APIURL, p.teardownHeaders(r.Auth), nil); err != nil {
		logger := r.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("Could not remove edge deployment",
			zap.String("url", p.APIURL),
			zap.Error(err),
		)
	}
	return nil
}

// endpoint returns the edge deployment endpoint for the current inputs.
func (p *EdgeDeployment) endpoint() string {
	base := p.baseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/sites/%s/edgeDeployment/%s", base, p.SiteName, p.ServiceID)
}

// authHeaders returns the request headers for the current inputs.
func (p *EdgeDeployment) authHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"x-api-user":   p.Email,
		"x-api-token":  p.AuthToken,
		"Fastly-Key":   p.FastlyAPIKey,
	}
}

// teardownHeaders returns the headers for the final unbind call. Secret
// values are redacted when the binding is read back from storage, so tokens
// are refilled from ambient credentials.
func (p *EdgeDeployment) teardownHeaders(auth resource.AuthProvider) map[string]string {
	h := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		h[k] = v
	}
	h["Content-Type"] = "application/json"
	if auth == nil {
		return h
	}
	if h["x-api-token"] == "" || h["x-api-token"] == resource.Redacted {
		if email, token, err := auth.Sigsci(); err == nil {
			h["x-api-user"] = email
			h["x-api-token"] = token
		}
	}
	if h["Fastly-Key"] == "" || h["Fastly-Key"] == resource.Redacted {
		if key, err := auth.Fastly(); err == nil {
			h["Fastly-Key"] = key
		}
	}
	return h
}
