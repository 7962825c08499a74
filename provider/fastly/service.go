package fastly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/httpclient"
	"github.com/rampart/rampart/resource"
)

// DefaultBaseURL is the Fastly API endpoint used when no override is set.
const DefaultBaseURL = "https://api.fastly.com"

// Service manages a Fastly service with its domains, origins and caching
// defaults.
//
// Service configuration versions are immutable once activated. Every update
// configures a fresh draft version from the desired state and activates it,
// rather than editing the objects of the previous version in place.
type Service struct {
	// Inputs

	// Name of the service.
	Name string `rampart:"input,required"`

	// Comment shown next to the service in the vendor console.
	Comment *string `rampart:"input"`

	// APIKey authenticates all calls for this service.
	APIKey string `rampart:"input,required,secret"`

	// Domains route traffic to the service.
	Domains []Domain `rampart:"input,required" name:"domain"`

	// Backends are the origin hosts behind the service.
	Backends []Backend `rampart:"input,required" name:"backend"`

	// DefaultTTL is the fallback cache TTL in seconds for responses without
	// caching headers. The vendor default applies when unset.
	DefaultTTL *int `rampart:"input" validate:"omitempty,gte=0"`

	// ForceDestroy allows deleting the service while a version is active.
	// Without it, Delete refuses to take down a service that is serving
	// traffic.
	ForceDestroy *bool `rampart:"input"`

	// Outputs

	// ID is the vendor assigned service id.
	ID string `rampart:"output"`

	// ActiveVersion is the configuration version serving traffic.
	ActiveVersion int `rampart:"output"`

	fastlyService
}

// A Domain routes requests for a hostname to the service.
type Domain struct {
	// Name is the fully qualified domain name.
	Name string `hcl:"name"`

	// Comment shown in the vendor console.
	Comment *string `hcl:"comment,optional"`
}

// A Backend is an origin host behind the service.
type Backend struct {
	// Name identifies the backend within the service.
	Name string `hcl:"name"`

	// Address is the hostname or IPv4 address of the origin.
	Address string `hcl:"address"`

	// Port overrides the default port (80, or 443 when UseSSL is set).
	Port *int `hcl:"port,optional"`

	// UseSSL connects to the origin over TLS.
	UseSSL *bool `hcl:"use_ssl,optional"`
}

func (p *Service) Type() string { return "fastly_service" }

// Create creates the service and activates its first configuration version.
func (p *Service) Create(ctx context.Context, r *resource.CreateRequest) error {
	c := p.service(r.HTTP)
	headers := p.headers(r.Auth)

	body := map[string]interface{}{"name": p.Name}
	if p.Comment != nil {
		body["comment"] = *p.Comment
	}
	raw, err := c.Request(ctx, http.MethodPost, p.url("/service"), headers, body)
	if err != nil {
		return errors.Wrap(err, "create service")
	}
	var svc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &svc); err != nil {
		return errors.Wrap(err, "decode create response")
	}
	p.ID = svc.ID

	// A new service starts with draft version 1.
	if err := p.configure(ctx, c, headers, 1); err != nil {
		return err
	}
	return p.activate(ctx, c, headers, 1)
}

// Update applies the desired state to the existing service by configuring
// and activating a fresh draft version.
func (p *Service) Update(ctx context.Context, r *resource.UpdateRequest) error {
	prev := r.Previous.(*Service)
	c := p.service(r.HTTP)
	headers := p.headers(r.Auth)

	p.ID = prev.ID

	if p.Name != prev.Name {
		body := map[string]interface{}{"name": p.Name}
		if _, err := c.Request(ctx, http.MethodPut, p.url("/service/"+p.ID), headers, body); err != nil {
			return errors.Wrap(err, "rename service")
		}
	}

	raw, err := c.Request(ctx, http.MethodPost, p.url("/service/"+p.ID+"/version"), headers, nil)
	if err != nil {
		return errors.Wrap(err, "create version")
	}
	var version struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal(raw, &version); err != nil {
		return errors.Wrap(err, "decode version response")
	}

	if err := p.configure(ctx, c, headers, version.Number); err != nil {
		return err
	}
	return p.activate(ctx, c, headers, version.Number)
}

// Delete deactivates the service and removes it. Deleting a service that
// still has an active version requires ForceDestroy.
//
// A service that is already gone on the vendor side is treated as deleted.
func (p *Service) Delete(ctx context.Context, r *resource.DeleteRequest) error {
	if p.ID == "" {
		// Never created.
		return nil
	}
	c := p.service(r.HTTP)
	headers := p.headers(r.Auth)

	if p.ActiveVersion > 0 {
		if p.ForceDestroy == nil || !*p.ForceDestroy {
			return errors.Errorf("service %s has an active version; set force_destroy to delete it", p.ID)
		}
		url := p.url(fmt.Sprintf("/service/%s/version/%d/deactivate", p.ID, p.ActiveVersion))
		if _, err := c.Request(ctx, http.MethodPut, url, headers, nil); err != nil {
			if httpclient.StatusCode(err) != http.StatusNotFound {
				return errors.Wrap(err, "deactivate version")
			}
		}
	}

	if _, err := c.Request(ctx, http.MethodDelete, p.url("/service/"+p.ID), headers, nil); err != nil {
		if httpclient.StatusCode(err) == http.StatusNotFound {
			// Already deleted.
			return nil
		}
		return errors.Wrap(err, "delete service")
	}
	return nil
}

// configure adds the desired domains, backends and settings to a draft
// version.
func (p *Service) configure(ctx context.Context, c *httpclient.Client, headers map[string]string, version int) error {
	base := fmt.Sprintf("/service/%s/version/%d", p.ID, version)

	for _, d := range p.Domains {
		body := map[string]interface{}{"name": d.Name}
		if d.Comment != nil {
			body["comment"] = *d.Comment
		}
		if _, err := c.Request(ctx, http.MethodPost, p.url(base+"/domain"), headers, body); err != nil {
			return errors.Wrapf(err, "add domain %q", d.Name)
		}
	}

	for _, b := range p.Backends {
		body := map[string]interface{}{
			"name":    b.Name,
			"address": b.Address,
		}
		if b.Port != nil {
			body["port"] = *b.Port
		}
		if b.UseSSL != nil {
			body["use_ssl"] = *b.UseSSL
		}
		if _, err := c.Request(ctx, http.MethodPost, p.url(base+"/backend"), headers, body); err != nil {
			return errors.Wrapf(err, "add backend %q", b.Name)
		}
	}

	if p.DefaultTTL != nil {
		body := map[string]interface{}{"general.default_ttl": *p.DefaultTTL}
		if _, err := c.Request(ctx, http.MethodPut, p.url(base+"/settings"), headers, body); err != nil {
			return errors.Wrap(err, "update settings")
		}
	}

	return nil
}

// activate promotes a draft version to serve traffic.
func (p *Service) activate(ctx context.Context, c *httpclient.Client, headers map[string]string, version int) error {
	url := p.url(fmt.Sprintf("/service/%s/version/%d/activate", p.ID, version))
	raw, err := c.Request(ctx, http.MethodPut, url, headers, nil)
	if err != nil {
		return errors.Wrapf(err, "activate version %d", version)
	}
	var out struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.Wrap(err, "decode activate response")
	}
	p.ActiveVersion = out.Number
	return nil
}

// headers returns the request headers for vendor calls. The API key is
// redacted when the service is read back from storage; it is refilled from
// ambient credentials.
func (p *Service) headers(auth resource.AuthProvider) map[string]string {
	key := p.APIKey
	if key == "" || key == resource.Redacted {
		if auth != nil {
			if k, err := auth.Fastly(); err == nil {
				key = k
			}
		}
	}
	return map[string]string{
		"Fastly-Key":   key,
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}
