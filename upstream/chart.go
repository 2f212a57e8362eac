package upstream

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ChartInterval is the bar size of a chart request.
type ChartInterval string

// ChartRange is how far back a chart request reaches.
type ChartRange string

const (
	Interval1d ChartInterval = "1d"
	Range3mo   ChartRange    = "3mo"
)

// ChartResponse is the top-level document of the chart api.
type ChartResponse struct {
	Chart ChartData `json:"chart"`
}

type ChartData struct {
	Result []ChartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Timestamp  []int64         `json:"timestamp"`
	Indicators ChartIndicators `json:"indicators"`
}

type ChartIndicators struct {
	Quote []ChartQuote `json:"quote"`
}

// ChartQuote holds the parallel price series. Yahoo reports a missing bar as
// null, hence the pointers.
type ChartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// DecodeChart parses a chart api body. Fields of an unexpected type are left
// at their zero value and the rest of the document is kept; only a body that
// is not json at all is an error.
func DecodeChart(body []byte) (*ChartResponse, error) {
	chart := new(ChartResponse)
	if err := json.Unmarshal(body, chart); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return chart, nil
		}

		return nil, errors.Wrap(err, "failed decoding chart response")
	}

	return chart, nil
}

// FirstQuote returns the first result and its first quote block, or false when
// either is missing.
func (c *ChartResponse) FirstQuote() (*ChartResult, *ChartQuote, bool) {
	if c == nil || len(c.Chart.Result) == 0 {
		return nil, nil, false
	}

	result := &c.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil, false
	}

	return result, &result.Indicators.Quote[0], true
}
