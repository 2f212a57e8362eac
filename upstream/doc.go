// Package upstream holds the outbound clients of the proxy: the yahoo finance
// chart api, used for candles, and the finnhub rest api, used for everything
// else.
package upstream
