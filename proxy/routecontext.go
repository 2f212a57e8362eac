package proxy

import (
	"context"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// RouteContext contains all the request information for a route when matched.
type RouteContext struct {
	Context context.Context
	Request events.APIGatewayV2HTTPRequest
	Params  map[string]string
}

// Query returns the request's query parameters. The raw query string is
// preferred since it keeps repeated keys apart; QueryStringParameters is only
// consulted when the raw string is missing. Malformed pairs are dropped the way
// a browser's URLSearchParams would.
func (ctx *RouteContext) Query() url.Values {
	if ctx.Request.RawQueryString != "" {
		values, _ := url.ParseQuery(ctx.Request.RawQueryString)
		return values
	}

	values := url.Values{}
	for k, v := range ctx.Request.QueryStringParameters {
		values.Set(k, v)
	}

	return values
}

// Param returns the named path parameter captured by the route, or "".
func (ctx *RouteContext) Param(name string) string {
	return ctx.Params[name]
}
