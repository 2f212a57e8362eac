// Package proxy provides the routing layer for aws lambda functions that act as
// aws api gateway v2 (http) integrations or lambda function urls. It matches an
// events.APIGatewayV2HTTPRequest against a list of regex routes and produces an
// events.APIGatewayProxyResponse, with helpers for reading query parameters and
// writing JSON bodies.
//
// The router is designed to be as simplistic as possible and is not feature
// rich.
package proxy
