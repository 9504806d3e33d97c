// Package rancher talks to the Rancher v1 API: authenticated reads and
// name-based resolution of the collections they return.
package rancher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// DefaultTimeout bounds each API request when the caller does not supply
// an http.Client.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = int64(16 * 1024 * 1024) // 16 MiB

// Client performs authenticated GET requests against one Rancher endpoint.
type Client struct {
	baseURL    string
	accessKey  string
	secretKey  string
	httpClient *http.Client
}

// NewClient returns a client for baseURL using HTTP basic auth with the
// access key pair. A nil httpClient gets one with DefaultTimeout.
func NewClient(baseURL string, accessKey string, secretKey string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf(messages.RancherBaseURLRequired)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		secretKey:  secretKey,
		httpClient: httpClient,
	}, nil
}

// ProjectsURL returns the URL of the environment (project) collection.
func (c *Client) ProjectsURL() string {
	return c.baseURL + "/v1/projects"
}

// Get reads url and returns the response body.
// Network failures are *TransportError; any status other than 200 is *StatusError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, maxResponseBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf(messages.RancherReadBodyFmt, err)}
	}
	if int64(len(data)) > maxResponseBytes {
		return nil, &TransportError{URL: url, Err: fmt.Errorf(messages.RancherResponseTooLargeFmt, maxResponseBytes)}
	}
	return data, nil
}

// Open starts an authenticated GET and returns the response body for streaming.
// The caller must close the body.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(messages.RancherCreateRequestFmt, url, err)
	}
	req.SetBasicAuth(c.accessKey, c.secretKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rancher-client")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}
