package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Response is an upstream answer: the status code and the body as received.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// restyLogger routes resty's own warnings into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

func newRestyClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetLogger(restyLogger{logger: logger}).
		SetHeader("Accept", "application/json")
}

func execute(ctx context.Context, provider string, req *resty.Request, path string) (*Response, error) {
	resp, err := req.SetContext(ctx).Get(path)
	if err != nil {
		return nil, newUpstreamError(provider, errors.Wrapf(err, "failed requesting %s", path))
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// ChartClient talks to the yahoo finance chart api.
type ChartClient struct {
	client *resty.Client
}

// NewChartClient returns a client rooted at baseURL, for example
// https://query1.finance.yahoo.com. The user agent is sent on every request
// since yahoo rejects the default go client identifier.
func NewChartClient(baseURL string, userAgent string, timeout time.Duration, logger zerolog.Logger) *ChartClient {
	client := newRestyClient(baseURL, timeout, logger).
		SetHeaders(map[string]string{
			"User-Agent":      userAgent,
			"Accept-Encoding": "gzip, br",
		}).
		OnAfterResponse(decompressMiddleware)

	return &ChartClient{client: client}
}

// Chart fetches the chart document for symbol.
func (c *ChartClient) Chart(ctx context.Context, symbol string, interval ChartInterval, rng ChartRange) (*Response, error) {
	req := c.client.R().
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": string(interval),
			"range":    string(rng),
		})

	return execute(ctx, ProviderYahoo, req, "/v8/finance/chart/{symbol}")
}

// FinnhubClient forwards requests to the finnhub rest api.
type FinnhubClient struct {
	client *resty.Client
}

// NewFinnhubClient returns a client rooted at baseURL, for example
// https://finnhub.io/api/v1.
func NewFinnhubClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *FinnhubClient {
	return &FinnhubClient{client: newRestyClient(baseURL, timeout, logger)}
}

// Get requests resource, a path relative to the base url used verbatim, with
// params as the query string.
func (c *FinnhubClient) Get(ctx context.Context, resource string, params url.Values) (*Response, error) {
	req := c.client.R().SetQueryParamsFromValues(params)

	return execute(ctx, ProviderFinnhub, req, "/"+resource)
}
