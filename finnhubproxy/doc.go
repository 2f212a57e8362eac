// Package finnhubproxy is the lambda handler that sits between the browser and
// the market data providers. Requests under the mount prefix are dispatched on
// the path remainder:
//
//	stock/candle  daily candles for the last three months, served from yahoo
//	              finance and reshaped into finnhub's candle format
//	quote         forwarded to finnhub, with the api key added when one exists
//	anything else forwarded to finnhub as is, the api key is mandatory
//
// Every outcome, including upstream failures, is answered with a json body.
package finnhubproxy
