package fastly

import (
	"github.com/rampart/rampart/httpclient"
)

type fastlyService struct {
	client  *httpclient.Client
	baseURL string
}

// service returns the API client to use. If client was set, it is returned.
// Otherwise the shared client from the request is used, falling back to a
// default client.
func (p *fastlyService) service(shared *httpclient.Client) *httpclient.Client {
	if p.client != nil {
		return p.client
	}
	if shared != nil {
		return shared
	}
	return &httpclient.Client{}
}

// url returns the API endpoint, with the path appended.
func (p *fastlyService) url(path string) string {
	base := p.baseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + path
}
