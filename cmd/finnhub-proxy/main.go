// Command finnhub-proxy is the lambda function that fronts the finnhub and
// yahoo finance apis for the browser.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/prognoshealth/marketproxy/config"
	"github.com/prognoshealth/marketproxy/finnhubproxy"
	"github.com/prognoshealth/marketproxy/secrets"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed loading configuration")
	}

	logger = logger.Level(cfg.Level())

	sources := []secrets.Source{secrets.EnvSource{Variable: cfg.KeyEnv}}
	if cfg.KeyParameter != "" {
		sources = append(sources, secrets.NewSSMSource(cfg.Region, cfg.KeyParameter))
	}

	apiKey := secrets.Resolve(context.Background(), logger, sources...)
	if apiKey == "" {
		logger.Warn().Msg("no finnhub api key found, only candles and tokenless quotes will work")
	}

	handler, err := finnhubproxy.NewFromConfig(cfg, apiKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed building handler")
	}

	logger.Info().Str("prefix", cfg.Prefix).Msg("finnhub proxy ready")
	lambda.Start(handler.Handle)
}
