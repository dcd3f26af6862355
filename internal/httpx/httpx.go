package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// BrowserHeaders mimic a desktop browser. Yahoo rejects unbranded clients.
// Accept-Encoding is left to the transport so gzip is decoded transparently.
var BrowserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Connection":      "keep-alive",
	"Referer":         "https://finance.yahoo.com/",
}

// Client is a small wrapper around resty with sane defaults.
type Client struct {
	R       *resty.Client
	Headers map[string]string
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	r := resty.NewWithClient(&http.Client{Timeout: timeout, Transport: transport})
	return &Client{R: r, Headers: map[string]string{}}
}

// Get issues a GET with the client headers, then the per-call headers on
// top. Non-2xx responses are returned as errors.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req := c.R.R().SetContext(ctx).SetHeaders(c.Headers).SetHeaders(headers)
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, fmt.Errorf("GET %s -> %d: %s", url, resp.StatusCode(), string(body))
	}
	return resp.Body(), nil
}
