// Package registry verifies that image tags exist on Docker Hub before a
// deployment is attempted.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/rancher-client/internal/compose"
	"github.com/conn-castle/rancher-client/internal/logging"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// DefaultURL is the Docker Hub API endpoint.
const DefaultURL = "https://hub.docker.com"

// DefaultConcurrency bounds the number of tag checks in flight.
const DefaultConcurrency = 8

// DefaultTimeout bounds each registry request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = int64(1024 * 1024)

// Client logs in to the registry once and checks tags with the resulting JWT.
type Client struct {
	baseURL     string
	user        string
	password    string
	httpClient  *http.Client
	Concurrency int
	Logger      *log.Logger

	mu    sync.Mutex
	token string
}

// NewClient returns a client for baseURL (DefaultURL when empty).
// A nil httpClient gets one with DefaultTimeout.
func NewClient(baseURL string, user string, password string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:     baseURL,
		user:        user,
		password:    password,
		httpClient:  httpClient,
		Concurrency: DefaultConcurrency,
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

type tagResponse struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// Login exchanges the credentials for a JWT. The token is cached, so only the
// first successful call reaches the network. Every failure is an *AuthError.
func (c *Client) Login(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	if c.user == "" || c.password == "" {
		return "", &AuthError{Reason: messages.RegistryCredentialsRequired}
	}

	form := url.Values{}
	form.Set("username", c.user)
	form.Set("password", c.password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/users/login/", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf(messages.RegistryLoginFmt, err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf(messages.RegistryLoginFmt, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Err: fmt.Errorf(messages.RegistryLoginStatusFmt, resp.StatusCode)}
	}

	var body loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return "", &AuthError{Err: fmt.Errorf(messages.RegistryLoginFmt, err)}
	}
	if body.Token == "" {
		return "", &AuthError{Reason: messages.RegistryLoginMissingToken}
	}
	c.token = body.Token
	logging.OrDiscard(c.Logger).Debug("registry login succeeded", "token", redact(c.token))
	return c.token, nil
}

// CheckMissing returns the images whose tag is absent from the registry, in
// input order. Duplicate references are checked once. Transport and status
// failures do not stop the other checks; they are joined and returned once
// every check has finished.
func (c *Client) CheckMissing(ctx context.Context, images []compose.Image, token string) ([]compose.Image, error) {
	if token == "" {
		return nil, &AuthError{Reason: messages.RegistryTokenRequired}
	}
	unique := dedupe(images)
	if len(unique) == 0 {
		return nil, nil
	}

	missing := make([]bool, len(unique))
	errs := make([]error, len(unique))

	sem := make(chan struct{}, concurrency(c.Concurrency, len(unique)))
	var wg sync.WaitGroup
	for i, img := range unique {
		wg.Add(1)
		go func(i int, img compose.Image) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			missing[i], errs[i] = c.checkTag(ctx, img, token)
		}(i, img)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	var out []compose.Image
	for i, img := range unique {
		if missing[i] {
			out = append(out, img)
		}
	}
	return out, nil
}

// Verify logs in and fails with *MissingImagesError when any tag is absent.
func (c *Client) Verify(ctx context.Context, images []compose.Image) error {
	token, err := c.Login(ctx)
	if err != nil {
		return err
	}
	missing, err := c.CheckMissing(ctx, images, token)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &MissingImagesError{Images: missing}
	}
	return nil
}

func (c *Client) checkTag(ctx context.Context, img compose.Image, token string) (bool, error) {
	tag := img.TagOrDefault()
	ref := img.Repository + ":" + tag
	endpoint := c.baseURL + "/v2/repositories/" + img.Path() + "/tags/" + url.PathEscape(tag)
	logging.OrDiscard(c.Logger).Debug("checking tag", "image", ref, "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf(messages.RegistryCheckFmt, ref, err)
	}
	req.Header.Set("Authorization", "JWT "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf(messages.RegistryCheckFmt, ref, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, &AuthError{Err: fmt.Errorf(messages.RegistryCheckStatusFmt, ref, resp.StatusCode)}
	default:
		return false, fmt.Errorf(messages.RegistryCheckStatusFmt, ref, resp.StatusCode)
	}

	var body tagResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return true, nil
		}
		return false, fmt.Errorf(messages.RegistryDecodeFmt, ref, err)
	}
	if resp.StatusCode == http.StatusNotFound || body.Detail == messages.RegistryNotFoundDetail || body.Name != tag {
		logging.OrDiscard(c.Logger).Debug("tag not found", "image", ref, "detail", body.Detail)
		return true, nil
	}
	return false, nil
}

func dedupe(images []compose.Image) []compose.Image {
	seen := make(map[string]bool, len(images))
	out := make([]compose.Image, 0, len(images))
	for _, img := range images {
		key := img.Repository + ":" + img.TagOrDefault()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, img)
	}
	return out
}

// concurrency clamps the configured limit to [1, n].
func concurrency(limit int, n int) int {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if limit > n {
		return n
	}
	return limit
}

func redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}
