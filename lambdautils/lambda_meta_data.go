package lambdautils

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
)

// LambdaMetaData stored details about the current lambda context.
type LambdaMetaData struct {
	FunctionName    string
	FunctionVersion string
	MemoryLimitInMB int
	Context         *lambdacontext.LambdaContext
}

// GetLambdaMetaData returns MetaData extracted from the current lambda context.
func GetLambdaMetaData(ctx context.Context) LambdaMetaData {
	lm := LambdaMetaData{
		FunctionName:    lambdacontext.FunctionName,
		FunctionVersion: lambdacontext.FunctionVersion,
		MemoryLimitInMB: lambdacontext.MemoryLimitInMB,
	}

	lm.Context, _ = lambdacontext.FromContext(ctx)
	return lm
}

// RequestID returns the aws request id of the invocation, or "" outside lambda.
func (lm LambdaMetaData) RequestID() string {
	if lm.Context == nil {
		return ""
	}

	return lm.Context.AwsRequestID
}

// Logger returns base enriched with the invocation's function and request
// identifiers. Fields that are unknown outside lambda are left out.
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	lm := GetLambdaMetaData(ctx)

	lc := base.With()
	if lm.FunctionName != "" {
		lc = lc.Str("function", lm.FunctionName)
	}

	if lm.FunctionVersion != "" {
		lc = lc.Str("version", lm.FunctionVersion)
	}

	if id := lm.RequestID(); id != "" {
		lc = lc.Str("request_id", id)
	}

	return lc.Logger()
}
