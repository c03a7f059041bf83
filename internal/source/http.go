package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTP fetches documents from a companion agent exposing a JSON manifest at
// GET {base}/documents?label={label}. Transient failures are retried with
// exponential backoff before the fetch is reported unavailable.
type HTTP struct {
	base   string
	client *retryablehttp.Client
}

// httpManifest is the wire format served by the document agent.
type httpManifest struct {
	Documents []httpDocument `json:"documents"`
}

type httpDocument struct {
	Name    string `json:"name"`
	Ext     string `json:"ext"`
	Content string `json:"content"`
	Origin  string `json:"origin"`
}

// NewHTTP creates an HTTP document source for the given base URL.
func NewHTTP(base string) *HTTP {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	return &HTTP{
		base:   strings.TrimSuffix(base, "/"),
		client: client,
	}
}

// FetchAll retrieves the manifest for a label and returns its documents in
// manifest order.
func (h *HTTP) FetchAll(ctx context.Context, label string) ([]RawDocument, error) {
	endpoint := fmt.Sprintf("%s/documents?label=%s", h.base, url.QueryEscape(label))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrUnavailable, resp.StatusCode, endpoint)
	}

	var manifest httpManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %v", ErrUnavailable, err)
	}

	docs := make([]RawDocument, 0, len(manifest.Documents))
	for _, doc := range manifest.Documents {
		origin := doc.Origin
		if origin == "" {
			origin = fmt.Sprintf("%s/%s.%s@%s", h.base, doc.Name, doc.Ext, label)
		}
		docs = append(docs, RawDocument{
			Name:   doc.Name,
			Ext:    doc.Ext,
			Raw:    []byte(doc.Content),
			Origin: origin,
		})
	}

	return docs, nil
}
