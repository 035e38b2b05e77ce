package ordering

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-engine/internal/cart"
)

const (
	defaultOrdersPath          = "orders"
	defaultSubmitTimeout       = 10 * time.Second
	errorBodyReadLimit   int64 = 1024
	replyBodyReadLimit   int64 = 64 << 10
)

var errBaseURLRequired = errors.New("orders base url is required")

// HTTPSubmitter posts orders as JSON to the orders resource of a remote API.
type HTTPSubmitter struct {
	httpClient *http.Client
	baseURL    string
	ordersPath string
}

// HTTPOption configures optional HTTPSubmitter behavior.
type HTTPOption func(*HTTPSubmitter)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSubmitter) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithOrdersPath overrides the orders resource path.
func WithOrdersPath(path string) HTTPOption {
	return func(s *HTTPSubmitter) {
		if trimmed := strings.Trim(strings.TrimSpace(path), "/"); trimmed != "" {
			s.ordersPath = trimmed
		}
	}
}

func NewHTTPSubmitter(baseURL string, opts ...HTTPOption) (*HTTPSubmitter, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	s := &HTTPSubmitter{
		httpClient: &http.Client{Timeout: defaultSubmitTimeout},
		baseURL:    trimmed,
		ordersPath: defaultOrdersPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// URL returns the endpoint orders are posted to.
func (s *HTTPSubmitter) URL() string {
	return s.baseURL + "/" + s.ordersPath
}

type orderReply struct {
	ID json.RawMessage `json:"id"`
}

func (s *HTTPSubmitter) Submit(ctx context.Context, payload cart.OrderPayload) (Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, submissionError(err, "encode order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL(), bytes.NewReader(body))
	if err != nil {
		return Receipt{}, submissionError(err, "build order request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Receipt{}, submissionError(err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return Receipt{}, submissionError(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "order request failed")
	}

	receipt := Receipt{Sink: SinkHTTP}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, replyBodyReadLimit))
	if err != nil {
		return Receipt{}, submissionError(err, "read order response")
	}
	var reply orderReply
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &reply) == nil {
		receipt.Reference = strings.Trim(string(reply.ID), `"`)
	}
	return receipt, nil
}
