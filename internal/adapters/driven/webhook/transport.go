package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure Transport implements the interface.
var _ driven.SearchTransport = (*Transport)(nil)

const (
	// maxErrorBody bounds how much of an error response is read for logging.
	maxErrorBody = 4096

	// maxResponseBody bounds the size of a search response.
	maxResponseBody = 32 << 20
)

// Transport sends queries to the search webhook.
// It enforces no timeout and never retries; see Retrying.
type Transport struct {
	client   *http.Client
	endpoint string
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// NewTransport creates a transport for endpoint. An empty endpoint is
// accepted; every search then fails with a ConfigurationError.
func NewTransport(endpoint string, opts ...Option) *Transport {
	t := &Transport{
		client:   &http.Client{},
		endpoint: strings.TrimSpace(endpoint),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Endpoint returns the configured endpoint URL.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// Search posts the query and decodes the aggregated response.
func (t *Transport) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	if t.endpoint == "" {
		return nil, &domain.ConfigurationError{
			Setting: "NOTESEARCH_WEBHOOK_URL",
			Hint:    "set it, or run: notesearch settings set webhook.url <url>",
		}
	}

	body, err := json.Marshal(domain.SearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	defer logger.Timed(fmt.Sprintf("webhook search %q", query))()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("webhook: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		return nil, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if len(data) > maxResponseBody {
		return nil, &domain.DecodeError{Err: fmt.Errorf("response body exceeds %d bytes", maxResponseBody)}
	}

	// The whole body must be one JSON value; trailing content is rejected.
	var out *domain.SearchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &domain.DecodeError{Err: err}
	}
	if out == nil {
		return nil, &domain.DecodeError{Err: errors.New("empty response body")}
	}

	out.Normalise()
	return out, nil
}

// statusText returns the reason phrase of resp without the numeric code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
