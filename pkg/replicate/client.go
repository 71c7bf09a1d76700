package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Client talks to the Replicate predictions API with a bearer credential.
// All methods honor the passed context for cancellation.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Options configures a Client. Zero values fall back to defaults; ProxyURL
// is optional and accepts socks5://, http:// or https:// schemes.
type Options struct {
	BaseURL  string
	Token    string
	ProxyURL string
	Timeout  time.Duration
}

// NewClient creates a Replicate API client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, fmt.Errorf("replicate: API token is required")
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient, err := newHTTPClient(opts.ProxyURL, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
	}, nil
}

// CreatePrediction submits a new prediction for the given model version.
// A non-success provider status is returned as *APIError; the submission is
// never retried here, the caller decides what a rejection means.
func (c *Client) CreatePrediction(ctx context.Context, version string, input PredictionInput) (*Prediction, error) {
	body, err := json.Marshal(createPredictionRequest{Version: version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	return c.doPrediction(req)
}

// GetPrediction reads the current state of a prediction.
func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if id == "" {
		return nil, fmt.Errorf("replicate: prediction id is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	c.setHeaders(req)

	return c.doPrediction(req)
}

// FetchOutput downloads the bytes a succeeded prediction points at and
// returns them with the content type the provider declares for them.
func (c *Client) FetchOutput(ctx context.Context, outputURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, outputURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: build output request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: fetch output: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &APIError{StatusCode: resp.StatusCode, Detail: "output fetch failed: " + resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: read output: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// doPrediction executes a request whose response body is a prediction.
func (c *Client) doPrediction(req *http.Request) (*Prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
			apiErr.Detail = errResp.Detail
		} else {
			apiErr.Detail = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}

	var pred Prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode prediction: %w", err)
	}
	return &pred, nil
}

// setHeaders applies the auth and identification headers. Replicate uses the
// "Token" authorization scheme rather than "Bearer".
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("User-Agent", UserAgent)
}

// newHTTPClient builds the underlying HTTP client, optionally routed through
// a SOCKS5 or HTTP proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("replicate: invalid proxy URL: %w", err)
		}

		switch parsed.Scheme {
		case "socks5", "socks5h":
			var auth *proxy.Auth
			if parsed.User != nil {
				auth = &proxy.Auth{User: parsed.User.Username()}
				if password, ok := parsed.User.Password(); ok {
					auth.Password = password
				}
			}
			dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("replicate: create SOCKS5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}

		case "http", "https":
			transport.Proxy = http.ProxyURL(parsed)

		default:
			return nil, fmt.Errorf("replicate: unsupported proxy scheme %q", parsed.Scheme)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
