package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
)

// baseURL is the base URL for the EOD Historical Data API.
const baseURL = "https://eodhistoricaldata.com/api"

// dateLayout is the date format used by the API for query parameters and
// date fields.
const dateLayout = "2006-01-02"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=eodhd_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the EOD Historical Data API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// ClientOption is a configuration option for the EOD Historical Data API client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new EOD Historical Data API client.
func NewClient(token string, options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	if token != "" {
		// This is the query parameter that is used to authenticate the client.
		// https://eodhistoricaldata.com/financial-apis/
		client.query.Add("api_token", token)
	}
	// The API answers in CSV unless fmt=json is requested.
	client.query.Add("fmt", "json")
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// queryString merges the per-request parameters into the client-wide ones and
// encodes them. url.Values.Encode sorts by key, so the result is deterministic.
func (c *Client) queryString(params url.Values) string {
	query := maps.Clone(c.query)
	for key, values := range params {
		query[key] = values
	}
	return query.Encode()
}

// get performs a GET request against the API and decodes the JSON response
// body into out.
func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return &ConnectionError{Cause: fmt.Errorf("creating request: %w", err)}
	}
	req.Header = c.header.Clone()
	req.Header.Add("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Cause: fmt.Errorf("performing request: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &FetchError{StatusCode: res.StatusCode}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &DeserializeError{Cause: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
