package protocols

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/giygas/hospital-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// maxCatalogSize caps a downloaded catalog
const maxCatalogSize = 10 * 1024 * 1024

// download fetches url and returns its body as UTF-8. Bodies that are not valid
// UTF-8 are decoded from ISO-8859-1, which is what older catalog exports use.
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %d", url, response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(response.Body, maxCatalogSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) > maxCatalogSize {
		return nil, fmt.Errorf("catalog at %s exceeds %d bytes", url, maxCatalogSize)
	}

	if utf8.Valid(bodyBytes) {
		return bodyBytes, nil
	}

	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ISO-8859-1 catalog: %w", err)
	}
	logging.Debug("Catalog decoded from ISO-8859-1", "url", url)
	return decoded, nil
}
