package upstream

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// decompressMiddleware decodes brotli bodies. resty already inflates gzip on
// its own, so only br is handled here.
func decompressMiddleware(c *resty.Client, resp *resty.Response) error {
	encoding := strings.TrimSpace(resp.Header().Get("Content-Encoding"))
	if !strings.EqualFold(encoding, "br") {
		return nil
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(resp.Body())))
	if err != nil {
		return errors.Wrap(err, "failed decoding brotli body")
	}

	resp.SetBody(decompressed)
	resp.Header().Del("Content-Encoding")
	return nil
}
