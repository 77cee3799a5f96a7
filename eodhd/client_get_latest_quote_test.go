package eodhd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	eodhd "eodhistdata/eodhd"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetLatestQuote(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "test-token", req.URL.Query().Get("api_token"))
			require.Contains(t, req.URL.Path, "/real-time/AAPL.US")
			require.Contains(t, req.URL.RawQuery, "fmt=json")

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(mockQuoteResponse))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("test-token", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.NoError(t, err)
	require.NotNil(t, quote)

	// Assert: the quote should be unmarshalled from the mock response
	require.Equal(t, "AAPL.US", quote.Code)
	require.Equal(t, int64(1721224200), quote.Timestamp)
	require.InEpsilon(t, 228.88, quote.Close, 0.0001)
	require.InEpsilon(t, 234.82, quote.PreviousClose, 0.0001)
	require.InEpsilon(t, -5.94, quote.Change, 0.0001)
	require.Equal(t, int64(57345900), quote.Volume)
}

func TestGetLatestQuote_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the Do method must not be reached
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	// Arrange: setup a new API client with an unparsable base URL
	client, err := eodhd.NewClient("", eodhd.WithHTTPClient(httpClient), eodhd.WithBaseURL(string([]rune{0x7f})))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.Error(t, err)
	require.Nil(t, quote)

	// Assert: request build failures surface as connection errors
	var connErr *eodhd.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestGetLatestQuote_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define the transport failure
	errNetwork := errors.New("network is down")

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, errNetwork
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.Error(t, err)
	require.Nil(t, quote)

	// Assert: the error is a connection error wrapping the transport failure
	var connErr *eodhd.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.ErrorIs(t, err, errNetwork)
}

func TestGetLatestQuote_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with a non-JSON error page
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewReader([]byte("<html>Unauthorized</html>"))),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.Error(t, err)
	require.Nil(t, quote)

	// Assert: the status error wins over the undecodable body
	var fetchErr *eodhd.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)

	var deserializeErr *eodhd.DeserializeError
	require.Falsef(t, errors.As(err, &deserializeErr), "expected no deserialize error, got: %v", err)
}

func TestGetLatestQuote_ErrDecodingResponse(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			buffer := &bytes.Buffer{}
			buffer.WriteString("invalid json")

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.Error(t, err)
	require.Nil(t, quote)

	// Assert: a 200 with a broken body surfaces as a deserialize error
	var deserializeErr *eodhd.DeserializeError
	require.ErrorAs(t, err, &deserializeErr)
}

func TestGetLatestQuote_ContextCanceled(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client behaving like a real one on cancel
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, req.Context().Err()
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Arrange: cancel the context before the call
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Act: call GetLatestQuote with the canceled context
	quote, err := client.GetLatestQuote(ctx, "AAPL.US")
	require.Error(t, err)
	require.Nil(t, quote)

	// Assert: the cancellation surfaces as a connection error
	var connErr *eodhd.ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGetLatestQuote_WithFixture(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Load the fixture data
	fixtureData, err := os.OpenFile("fixtures/real_time_aapl_us.json", os.O_RDONLY, 0600)
	require.NoError(t, err)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "test-token", req.URL.Query().Get("api_token"))
			require.Contains(t, req.URL.Path, "/real-time/AAPL.US")

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       fixtureData,
			}, nil
		}).
		Times(1)

	// Arrange: setup a new API client
	client, err := eodhd.NewClient("test-token", eodhd.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetLatestQuote
	quote, err := client.GetLatestQuote(t.Context(), "AAPL.US")
	require.NoError(t, err)
	require.NotNil(t, quote)

	// Assert: the quote should be unmarshalled from the fixture data
	require.Equal(t, "AAPL.US", quote.Code)
	require.Equal(t, time.Date(2024, 7, 17, 13, 50, 0, 0, time.UTC), quote.Time())
	require.Equal(t, 0, quote.GMTOffset)
	require.InEpsilon(t, 229.45, quote.Open, 0.0001)
	require.InEpsilon(t, 231.46, quote.High, 0.0001)
	require.InEpsilon(t, 226.64, quote.Low, 0.0001)
	require.InEpsilon(t, 228.88, quote.Close, 0.0001)
	require.Equal(t, int64(57345900), quote.Volume)
	require.InEpsilon(t, 234.82, quote.PreviousClose, 0.0001)
	require.InEpsilon(t, -5.94, quote.Change, 0.0001)
	require.InEpsilon(t, -2.5296, quote.ChangePercent, 0.0001)
}

// mockQuoteResponse is a mock response from the real-time endpoint
var mockQuoteResponse = map[string]any{
	"code":          "AAPL.US",
	"timestamp":     1721224200,
	"gmtoffset":     0,
	"open":          229.45,
	"high":          231.46,
	"low":           226.64,
	"close":         228.88,
	"volume":        57345900,
	"previousClose": 234.82,
	"change":        -5.94,
	"change_p":      -2.5296,
}
