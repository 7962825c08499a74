// Package httpclient provides the JSON HTTP client shared by the vendor API
// surfaces.
//
// The client performs a single attempt per request. Failures surface
// immediately to the caller; there is no retry or backoff and no timeout
// beyond what the caller's context imposes.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// A Client performs JSON requests against a vendor API.
//
// The zero value is usable and performs requests with a shared default
// http.Client.
type Client struct {
	// HTTP performs the requests. If nil, a shared default client is used.
	// The default client has no timeout; deadlines come from the request
	// context.
	HTTP *http.Client

	// UserAgent is set on every request when not empty.
	UserAgent string
}

// A StatusError is returned when the server responds with a non-2xx status.
// The response body is retained so callers can recover the vendor's error
// message.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements error. The message includes the numeric status code and
// the response body text.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, strings.TrimSpace(e.Body))
}

// StatusCode returns the HTTP status code carried by err, unwrapping any
// added context. Returns 0 if err does not carry a status code.
func StatusCode(err error) int {
	if se, ok := errors.Cause(err).(*StatusError); ok {
		return se.StatusCode
	}
	return 0
}

var defaultClient = &http.Client{}

// Request performs a single JSON request.
//
// When body is not nil it is marshalled as the JSON request body. Headers
// are applied to the request verbatim. On a 2xx response the raw response
// body is returned; callers decode the parts they need. On any other status
// a *StatusError is returned.
func (c *Client) Request(ctx context.Context, method, url string, headers map[string]string, body interface{}) (json.RawMessage, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	hc := c.HTTP
	if hc == nil {
		hc = defaultClient
	}
	resp, err := hc.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint: errcheck

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return json.RawMessage(data), nil
}
