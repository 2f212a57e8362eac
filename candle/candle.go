// Package candle defines the finnhub candle payload and builds it from yahoo
// chart data.
package candle

import (
	"encoding/json"

	"github.com/prognoshealth/marketproxy/upstream"
)

// Status values of a candle payload.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// Candle is the finnhub /stock/candle response. When S is "ok" the six series
// are parallel. A nil series is omitted from the json, an empty one is
// written as [].
type Candle struct {
	S     string
	C     []*float64
	H     []*float64
	L     []*float64
	O     []*float64
	V     []*float64
	T     []int64
	Error string
}

type candleJSON struct {
	S     string      `json:"s"`
	C     *[]*float64 `json:"c,omitempty"`
	H     *[]*float64 `json:"h,omitempty"`
	L     *[]*float64 `json:"l,omitempty"`
	O     *[]*float64 `json:"o,omitempty"`
	V     *[]*float64 `json:"v,omitempty"`
	T     *[]int64    `json:"t,omitempty"`
	Error string      `json:"error,omitempty"`
}

// present maps nil to nil and anything else, empty included, to a pointer so
// omitempty only drops series that were never there.
func present[E any](s []E) *[]E {
	if s == nil {
		return nil
	}

	return &s
}

// MarshalJSON implements json.Marshaler.
func (c Candle) MarshalJSON() ([]byte, error) {
	return json.Marshal(candleJSON{
		S:     c.S,
		C:     present(c.C),
		H:     present(c.H),
		L:     present(c.L),
		O:     present(c.O),
		V:     present(c.V),
		T:     present(c.T),
		Error: c.Error,
	})
}

// NoData returns a no_data payload, with msg as the error when non-empty.
func NoData(msg string) Candle {
	return Candle{S: StatusNoData, Error: msg}
}

// FromChart maps the first chart result onto a candle. It returns false when
// the chart has no result or no quote block. The chart's own error field is
// ignored once a quote block exists.
func FromChart(chart *upstream.ChartResponse) (Candle, bool) {
	result, quote, ok := chart.FirstQuote()
	if !ok {
		return NoData(""), false
	}

	return Candle{
		S: StatusOK,
		C: quote.Close,
		H: quote.High,
		L: quote.Low,
		O: quote.Open,
		V: quote.Volume,
		T: result.Timestamp,
	}, true
}
