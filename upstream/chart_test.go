package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeChart(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1700000000,1700086400],
		"indicators":{"quote":[{"open":[1,2],"high":[3,null],"low":[0.5,1],"close":[2,1.5],"volume":[100,200]}]}}],"error":null}}`

	chart, err := DecodeChart([]byte(body))
	assert.NoError(t, err)

	result, quote, ok := chart.FirstQuote()
	assert.True(t, ok)
	assert.Equal(t, []int64{1700000000, 1700086400}, result.Timestamp)
	assert.Len(t, quote.High, 2)
	assert.Equal(t, 3.0, *quote.High[0])
	assert.Nil(t, quote.High[1])
	assert.Nil(t, chart.Chart.Error)
}

func TestDecodeChart_error(t *testing.T) {
	_, err := DecodeChart([]byte(`<html>`))
	assert.Error(t, err)
}

func TestChartResponse_FirstQuote_missing(t *testing.T) {
	cases := []string{
		`{}`,
		`null`,
		`[]`,
		`{"chart":{"result":"unexpected"}}`,
		`{"chart":{"result":null}}`,
		`{"chart":{"result":[]}}`,
		`{"chart":{"result":[{"timestamp":[1]}]}}`,
		`{"chart":{"result":[{"indicators":{"quote":[]}}]}}`,
	}

	for _, c := range cases {
		chart, err := DecodeChart([]byte(c))
		assert.NoError(t, err)

		_, _, ok := chart.FirstQuote()
		assert.False(t, ok, c)
	}
}

func TestChartResponse_FirstQuote_nil(t *testing.T) {
	var chart *ChartResponse

	_, _, ok := chart.FirstQuote()
	assert.False(t, ok)
}

func TestDecodeChart_keepsQuoteDespiteMistypedFields(t *testing.T) {
	cases := []string{
		`{"chart":{"result":[{"timestamp":[1700000000],"indicators":{"quote":[{"close":[2.5]}]}}],"error":"partial"}}`,
		`{"chart":{"error":"partial","result":[{"timestamp":[1700000000],"indicators":{"quote":[{"close":[2.5]}]}}]}}`,
		`{"chart":{"result":[{"meta":{},"timestamp":"soon","indicators":{"quote":[{"close":[2.5]}]}}]}}`,
	}

	for _, c := range cases {
		chart, err := DecodeChart([]byte(c))
		assert.NoError(t, err, c)

		_, quote, ok := chart.FirstQuote()
		assert.True(t, ok, c)
		assert.Equal(t, 2.5, *quote.Close[0], c)
	}
}
