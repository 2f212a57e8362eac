package proxy

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ErrorHandler turns an error returned by a route into a response.
type ErrorHandler func(context.Context, events.APIGatewayV2HTTPRequest, error) (events.APIGatewayProxyResponse, error)

// CatchAllHandler answers requests that no route matched.
type CatchAllHandler func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error)

// Router dispatches an events.APIGatewayV2HTTPRequest to the first route, in
// registration order, whose method and pattern match.
//
// Unmatched requests go to CatchAll when set, otherwise Route returns a not
// found error. Route errors go through CatchError when set.
//
// Strict routes match the pattern exactly; otherwise a single trailing slash
// is tolerated.
//
// Example:
//
//	router := &proxy.Router{Strict: true}
//	router.GET("/api/quote", func(ctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
//		return proxy.JSONResponse(200, map[string]string{"symbol": ctx.Query().Get("symbol")})
//	})
//
//	if !router.Valid() {
//		return router.BuildErrors()
//	}
//
//	lambda.Start(router.Route)
type Router struct {
	Routes     []*Route
	CatchAll   CatchAllHandler
	CatchError ErrorHandler
	Strict     bool

	errors []error
}

// Valid reports whether every route compiled.
func (router *Router) Valid() bool {
	return len(router.errors) == 0
}

// BuildErrors folds the route compilation errors into one error.
func (router *Router) BuildErrors() error {
	topError := errors.New("failed building router")

	for _, err := range router.errors {
		topError = errors.Wrap(topError, err.Error())
	}

	return topError
}

// GET registers handler for GET requests whose path matches the pattern. A
// pattern that fails to compile is recorded as a build error.
func (router *Router) GET(match string, handler RouteHandler) {
	router.add(GET, match, handler)
}

func (router *Router) add(method HttpMethod, match string, handler RouteHandler) {
	var route *Route
	var err error

	if router.Strict {
		route, err = NewStrictRoute(method, match, handler)
	} else {
		route, err = NewRoute(method, match, handler)
	}

	if err != nil {
		router.errors = append(router.errors, err)
		return
	}

	router.Routes = append(router.Routes, route)
}

// AddCatchAllHandler attaches a catchall handler to the router.
func (router *Router) AddCatchAllHandler(handler CatchAllHandler) {
	router.CatchAll = handler
}

// AddErrorHandler attaches a error handler to the router.
func (router *Router) AddErrorHandler(handler ErrorHandler) {
	router.CatchError = handler
}

func (router *Router) dispatch(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	for _, route := range router.Routes {
		if matched, groups := route.IsMatch(request); matched {
			return route.Follow(ctx, request, groups)
		}
	}

	if router.CatchAll != nil {
		return router.CatchAll(ctx, request)
	}

	return events.APIGatewayProxyResponse{}, fmt.Errorf("'%s %s' not found", request.RequestContext.HTTP.Method, request.RawPath)
}

// Route answers request with the matching route, the catchall or, when either
// fails and CatchError is set, the error handler.
func (router *Router) Route(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	response, err := router.dispatch(ctx, request)
	if err != nil && router.CatchError != nil {
		return router.CatchError(ctx, request, err)
	}

	return response, err
}
