package finnhubproxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/prognoshealth/marketproxy/candle"
	"github.com/prognoshealth/marketproxy/config"
	"github.com/prognoshealth/marketproxy/lambdautils"
	"github.com/prognoshealth/marketproxy/proxy"
	"github.com/prognoshealth/marketproxy/upstream"
)

// Route kinds, in match order.
const (
	RouteCandle   = "candle"
	RouteQuote    = "quote"
	RouteResource = "resource"
)

const (
	candlePath = "stock/candle"
	quotePath  = "quote"

	resourceParam = "resource"
	tokenParam    = "token"
	symbolParam   = "symbol"
)

const missingKeyMessage = "FINNHUB_API_KEY is not set for this endpoint"

// ChartFetcher is the part of the chart client the handler needs.
type ChartFetcher interface {
	Chart(ctx context.Context, symbol string, interval upstream.ChartInterval, rng upstream.ChartRange) (*upstream.Response, error)
}

// ResourceFetcher is the part of the finnhub client the handler needs.
type ResourceFetcher interface {
	Get(ctx context.Context, resource string, params url.Values) (*upstream.Response, error)
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler holds no per-request state and is safe for concurrent use.
type Handler struct {
	prefix  string
	apiKey  string
	chart   ChartFetcher
	finnhub ResourceFetcher
	logger  zerolog.Logger
	router  *proxy.Router
}

// New builds a handler mounted at prefix. apiKey may be empty, in which case
// quotes are requested without a token and other resources are refused.
func New(prefix string, apiKey string, chart ChartFetcher, finnhub ResourceFetcher, logger zerolog.Logger) (*Handler, error) {
	h := &Handler{
		prefix:  prefix,
		apiKey:  apiKey,
		chart:   chart,
		finnhub: finnhub,
		logger:  logger,
	}

	base := regexp.QuoteMeta(prefix)

	router := &proxy.Router{Strict: true}
	router.GET(base+"/"+regexp.QuoteMeta(candlePath), h.withRoute(RouteCandle, h.candle))
	router.GET(base+"/"+regexp.QuoteMeta(quotePath), h.withRoute(RouteQuote, h.quote))
	router.GET(base+"/?(?P<"+resourceParam+">.*)", h.withRoute(RouteResource, h.resource))
	router.AddCatchAllHandler(h.notFound)
	router.AddErrorHandler(h.failed)

	if !router.Valid() {
		return nil, router.BuildErrors()
	}

	h.router = router
	return h, nil
}

// NewFromConfig wires the default yahoo and finnhub clients from cfg.
func NewFromConfig(cfg *config.Config, apiKey string, logger zerolog.Logger) (*Handler, error) {
	chart := upstream.NewChartClient(cfg.ChartURL, cfg.UserAgent, cfg.TimeoutDuration(), logger)
	finnhub := upstream.NewFinnhubClient(cfg.FinnhubURL, cfg.TimeoutDuration(), logger)

	return New(cfg.Prefix, apiKey, chart, finnhub, logger)
}

// Handle is the lambda entry point. It never returns an error; failures are
// reported to the caller as json responses.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	return h.router.Route(ctx, request)
}

// withRoute tags the context logger with the route kind before running fn.
func (h *Handler) withRoute(kind string, fn func(*proxy.RouteContext, zerolog.Logger) (events.APIGatewayProxyResponse, error)) proxy.RouteHandler {
	return func(rctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
		logger := lambdautils.Logger(rctx.Context, h.logger).With().
			Str("route", kind).
			Str("path", rctx.Request.RawPath).
			Logger()

		logger.Debug().Msg("dispatching")

		return fn(rctx, logger)
	}
}

func (h *Handler) candle(rctx *proxy.RouteContext, logger zerolog.Logger) (events.APIGatewayProxyResponse, error) {
	symbol := rctx.Query().Get(symbolParam)
	if symbol == "" {
		return proxy.JSONResponse(http.StatusBadRequest, candle.NoData("Missing symbol parameter"))
	}

	resp, err := h.chart.Chart(rctx.Context, symbol, upstream.Interval1d, upstream.Range3mo)
	if err != nil {
		if uerr, ok := upstream.AsUpstreamError(err); ok {
			logger.Error().Err(err).Str("symbol", symbol).Msg("chart request failed")
			return proxy.JSONResponse(upstreamFailureStatus(uerr), candle.NoData(uerr.Provider+" request failed"))
		}

		return events.APIGatewayProxyResponse{}, err
	}

	if !resp.IsSuccess() {
		logger.Warn().Int("status", resp.StatusCode).Str("symbol", symbol).Msg("chart request rejected")
		return proxy.JSONResponse(resp.StatusCode, candle.NoData(fmt.Sprintf("%s returned %d", upstream.ProviderYahoo, resp.StatusCode)))
	}

	chart, err := upstream.DecodeChart(resp.Body)
	if err != nil {
		logger.Error().Err(err).Str("symbol", symbol).Msg("chart response malformed")
		return proxy.JSONResponse(http.StatusBadGateway, candle.NoData(upstream.ProviderYahoo+" returned a malformed payload"))
	}

	payload, ok := candle.FromChart(chart)
	if !ok {
		logger.Debug().Str("symbol", symbol).Msg("chart has no quote data")
	}

	return proxy.JSONResponse(http.StatusOK, payload)
}

func (h *Handler) quote(rctx *proxy.RouteContext, logger zerolog.Logger) (events.APIGatewayProxyResponse, error) {
	params := rctx.Query()
	if h.apiKey != "" {
		params.Set(tokenParam, h.apiKey)
	} else {
		logger.Warn().Msg("no api key configured, requesting quote without token")
	}

	return h.forward(rctx.Context, quotePath, params)
}

func (h *Handler) resource(rctx *proxy.RouteContext, logger zerolog.Logger) (events.APIGatewayProxyResponse, error) {
	if h.apiKey == "" {
		logger.Error().Msg("no api key configured")
		return proxy.JSONResponse(http.StatusInternalServerError, errorBody{Error: missingKeyMessage})
	}

	params := rctx.Query()
	params.Set(tokenParam, h.apiKey)

	return h.forward(rctx.Context, rctx.Param(resourceParam), params)
}

func (h *Handler) forward(ctx context.Context, resource string, params url.Values) (events.APIGatewayProxyResponse, error) {
	resp, err := h.finnhub.Get(ctx, resource, params)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed forwarding %s", resource)
	}

	return proxy.RawJSONResponse(resp.StatusCode, resp.Body), nil
}

// notFound answers requests no route accepted: other methods under the
// prefix, and paths outside it.
func (h *Handler) notFound(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	method := request.RequestContext.HTTP.Method

	if h.underPrefix(request.RawPath) {
		return proxy.JSONResponse(http.StatusMethodNotAllowed, errorBody{Error: fmt.Sprintf("method %s not allowed", method)})
	}

	return proxy.JSONResponse(http.StatusNotFound, errorBody{Error: fmt.Sprintf("'%s %s' not found", method, request.RawPath)})
}

func (h *Handler) underPrefix(path string) bool {
	return strings.HasPrefix(path, h.prefix)
}

// failed turns route errors into responses. Upstream transport failures become
// 502, or 504 when they timed out; anything else is an internal error.
func (h *Handler) failed(ctx context.Context, request events.APIGatewayV2HTTPRequest, err error) (events.APIGatewayProxyResponse, error) {
	logger := lambdautils.Logger(ctx, h.logger)

	if uerr, ok := upstream.AsUpstreamError(err); ok {
		logger.Error().Err(err).Str("path", request.RawPath).Msg("upstream request failed")
		return proxy.JSONResponse(upstreamFailureStatus(uerr), errorBody{Error: uerr.Provider + " request failed"})
	}

	logger.Error().Err(err).Str("path", request.RawPath).Msg("request failed")
	return proxy.JSONResponse(http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func upstreamFailureStatus(err *upstream.UpstreamError) int {
	if err.Timeout {
		return http.StatusGatewayTimeout
	}

	return http.StatusBadGateway
}
