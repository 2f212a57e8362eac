// Package secrets resolves the finnhub api key from the places a lambda can be
// configured with: its environment and the ssm parameter store.
package secrets

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Source looks up a single secret value. An empty value with a nil error means
// the source has nothing configured.
type Source interface {
	Name() string
	Lookup(ctx context.Context) (string, error)
}

// EnvSource reads the secret from an environment variable.
type EnvSource struct {
	Variable string
}

// Name implements Source.
func (s EnvSource) Name() string {
	return "env:" + s.Variable
}

// Lookup implements Source.
func (s EnvSource) Lookup(ctx context.Context) (string, error) {
	return os.Getenv(s.Variable), nil
}

// SSMSource reads the secret from an ssm parameter, decrypting SecureString
// parameters. A missing parameter is not an error.
type SSMSource struct {
	Region    string
	Parameter string

	svcFunc func(client.ConfigProvider) ssmiface.SSMAPI
}

// NewSSMSource returns a source for the named parameter in region. An empty
// region defers to the sdk's own region resolution.
func NewSSMSource(region string, parameter string) *SSMSource {
	return &SSMSource{Region: region, Parameter: parameter}
}

// Name implements Source.
func (s *SSMSource) Name() string {
	return "ssm:" + s.Parameter
}

// svc is used internally to assist stubs on ssm for testing
func (s *SSMSource) svc(p client.ConfigProvider) ssmiface.SSMAPI {
	if s.svcFunc != nil {
		return s.svcFunc(p)
	}

	return ssm.New(p)
}

// Lookup implements Source.
func (s *SSMSource) Lookup(ctx context.Context) (string, error) {
	cfg := &aws.Config{}
	if s.Region != "" {
		cfg.Region = aws.String(s.Region)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed getting session")
	}

	out, err := s.svc(sess).GetParameterWithContext(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.Parameter),
		WithDecryption: aws.Bool(true),
	})

	if err != nil {
		aerr, ok := err.(awserr.Error)
		if ok && aerr.Code() == ssm.ErrCodeParameterNotFound {
			return "", nil
		}

		return "", errors.Wrapf(err, "failed getting parameter %v", s.Parameter)
	}

	if out.Parameter == nil {
		return "", nil
	}

	return aws.StringValue(out.Parameter.Value), nil
}

// Resolve returns the first non-empty value produced by sources, tried in
// order. A failing source is logged and skipped. An empty string means no
// source had a value.
func Resolve(ctx context.Context, logger zerolog.Logger, sources ...Source) string {
	for _, source := range sources {
		value, err := source.Lookup(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("source", source.Name()).Msg("secret source failed")
			continue
		}

		if value != "" {
			logger.Debug().Str("source", source.Name()).Msg("secret resolved")
			return value
		}
	}

	return ""
}
