package upstream

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestResponse_IsSuccess(t *testing.T) {
	cases := []struct {
		status   int
		expected bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, c := range cases {
		r := &Response{StatusCode: c.status}
		assert.Equal(t, c.expected, r.IsSuccess(), c.status)
	}
}

func TestChartClient_Chart(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer server.Close()

	c := NewChartClient(server.URL, "Mozilla/5.0", time.Second, zerolog.Nop())
	resp, err := c.Chart(context.Background(), "^GSPC", Interval1d, Range3mo)

	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"chart":{"result":[]}}`, string(resp.Body))

	assert.Equal(t, "/v8/finance/chart/%5EGSPC", got.URL.EscapedPath())
	assert.Equal(t, "1d", got.URL.Query().Get("interval"))
	assert.Equal(t, "3mo", got.URL.Query().Get("range"))
	assert.Equal(t, "Mozilla/5.0", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestChartClient_Chart_status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	c := NewChartClient(server.URL, "Mozilla/5.0", time.Second, zerolog.Nop())
	resp, err := c.Chart(context.Background(), "ZZZZ", Interval1d, Range3mo)

	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestChartClient_Chart_brotli(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[{"close":[1.5]}]}}]}}`

	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	bw.Write([]byte(body))
	bw.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		w.Header().Set("Content-Type", "application/json")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	c := NewChartClient(server.URL, "Mozilla/5.0", time.Second, zerolog.Nop())
	resp, err := c.Chart(context.Background(), "AAPL", Interval1d, Range3mo)

	assert.NoError(t, err)
	assert.Equal(t, body, string(resp.Body))
}

func TestChartClient_Chart_connectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	c := NewChartClient(base, "Mozilla/5.0", time.Second, zerolog.Nop())
	_, err := c.Chart(context.Background(), "AAPL", Interval1d, Range3mo)

	assert.Error(t, err)

	uerr, ok := AsUpstreamError(err)
	assert.True(t, ok)
	assert.Equal(t, ProviderYahoo, uerr.Provider)
	assert.False(t, uerr.Timeout)
}

func TestChartClient_Chart_timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewChartClient(server.URL, "Mozilla/5.0", 50*time.Millisecond, zerolog.Nop())
	_, err := c.Chart(context.Background(), "AAPL", Interval1d, Range3mo)

	uerr, ok := AsUpstreamError(err)
	assert.True(t, ok)
	assert.True(t, uerr.Timeout)
	assert.Contains(t, uerr.Error(), "Yahoo Finance request timed out")
}

func TestFinnhubClient_Get(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"API limit reached"}`))
	}))
	defer server.Close()

	c := NewFinnhubClient(server.URL+"/api/v1", time.Second, zerolog.Nop())
	params := url.Values{"symbol": {"AAPL"}, "token": {"secret"}}

	resp, err := c.Get(context.Background(), "stock/profile2", params)

	assert.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, `{"error":"API limit reached"}`, string(resp.Body))
	assert.Equal(t, "/api/v1/stock/profile2", got.URL.Path)
	assert.Equal(t, "AAPL", got.URL.Query().Get("symbol"))
	assert.Equal(t, "secret", got.URL.Query().Get("token"))
}

func TestFinnhubClient_Get_repeatedParams(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewFinnhubClient(server.URL, time.Second, zerolog.Nop())
	_, err := c.Get(context.Background(), "search", url.Values{"q": {"AAPL", "MSFT"}})

	assert.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got["q"])
}

func TestFinnhubClient_Get_cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewFinnhubClient(server.URL, 10*time.Second, zerolog.Nop())
	_, err := c.Get(ctx, "quote", nil)

	uerr, ok := AsUpstreamError(err)
	assert.True(t, ok)
	assert.Equal(t, ProviderFinnhub, uerr.Provider)
	assert.True(t, uerr.Timeout)
}
