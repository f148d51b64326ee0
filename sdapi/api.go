package sdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ayunami2000/ayunsdlist/metrics"
	"github.com/ayunami2000/ayunsdlist/utils"
)

const (
	ModelsPath     = "/sdapi/v1/sd-models"
	OptionsPath    = "/sdapi/v1/options"
	VAEsPath       = "/sdapi/v1/sd-vae"
	EmbeddingsPath = "/sdapi/v1/embeddings"
)

var ErrResponseCode = errors.New("got unexpected response code")

type httpTransport struct {
	basicAuth string
	inner     http.RoundTripper
}

func (t *httpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.basicAuth != "" {
		req.Header.Set("Authorization", "Basic "+t.basicAuth)
	}

	start := time.Now()
	res, err := t.inner.RoundTrip(req)
	if err != nil {
		metrics.ObserveRequest(req.URL.Path, req.Method, 0, time.Since(start))
		return nil, err
	}
	metrics.ObserveRequest(req.URL.Path, req.Method, res.StatusCode, time.Since(start))

	if res.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrResponseCode, res.Status)
	}

	return res, nil
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the base round tripper under the auth and status handling.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport.(*httpTransport).inner = rt
	}
}

func New(endpoint, basicAuth string, opts ...Option) *Client {
	c := &Client{
		endpoint: utils.TrimSlash(endpoint),
		httpClient: &http.Client{
			Timeout:   time.Minute,
			Transport: &httpTransport{basicAuth: basicAuth, inner: http.DefaultTransport},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(v)
}

func (c *Client) post(ctx context.Context, path string, data any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, res.Body)
	return res.Body.Close()
}

func (c *Client) GetModels(ctx context.Context) ([]Model, error) {
	var models []Model
	if err := c.get(ctx, ModelsPath, &models); err != nil {
		return nil, err
	}
	return models, nil
}

func (c *Client) GetOptions(ctx context.Context) (*Options, error) {
	var opts Options
	if err := c.get(ctx, OptionsPath, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *Client) SetOptions(ctx context.Context, update OptionsUpdate) error {
	return c.post(ctx, OptionsPath, update)
}

func (c *Client) GetVAEs(ctx context.Context) ([]VAE, error) {
	var vaes []VAE
	if err := c.get(ctx, VAEsPath, &vaes); err != nil {
		return nil, err
	}
	return vaes, nil
}

func (c *Client) GetEmbeddings(ctx context.Context) (*EmbeddingsResponse, error) {
	var res EmbeddingsResponse
	if err := c.get(ctx, EmbeddingsPath, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Names returns the loaded embedding names in sorted order.
func (e *EmbeddingsResponse) Names() []string {
	return utils.SortedKeys(e.Loaded)
}
