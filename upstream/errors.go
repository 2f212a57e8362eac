package upstream

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

// Provider names, as reported to clients.
const (
	ProviderYahoo   = "Yahoo Finance"
	ProviderFinnhub = "Finnhub"
)

// UpstreamError reports that no response could be obtained from a provider,
// as opposed to the provider answering with an error status.
type UpstreamError struct {
	Provider string
	Timeout  bool
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s request timed out: %v", e.Provider, e.Err)
	}

	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func newUpstreamError(provider string, err error) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Timeout:  isTimeout(err),
		Err:      err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// AsUpstreamError extracts an UpstreamError from err's chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return uerr, true
	}

	return nil, false
}
