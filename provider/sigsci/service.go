package sigsci

import (
	"github.com/rampart/rampart/httpclient"
)

type sigsciService struct {
	client  *httpclient.Client
	baseURL string
}

// service returns the API client to use. If client was set, it is returned.
// Otherwise the shared client from the request is used, falling back to a
// default client.
func (p *sigsciService) service(shared *httpclient.Client) *httpclient.Client {
	if p.client != nil {
		return p.client
	}
	if shared != nil {
		return shared
	}
	return &httpclient.Client{}
}
