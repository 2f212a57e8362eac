package proxy

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ContentTypeJSON is the content type attached to every response built here.
const ContentTypeJSON = "application/json"

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
	}
}

// JSONResponse marshals v and returns it as the body of a response with the
// given status code.
func JSONResponse(status int, v interface{}) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed marshalling %T response", v)
	}

	return RawJSONResponse(status, b), nil
}

// RawJSONResponse returns body untouched, labelled as JSON.
func RawJSONResponse(status int, body []byte) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      status,
		Headers:         jsonHeaders(),
		Body:            string(body),
		IsBase64Encoded: false,
	}
}
