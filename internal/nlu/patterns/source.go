package patterns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrFetchFailed  = errors.New("PATTERN_FETCH_FAILED")
	ErrFetchTimeout = errors.New("PATTERN_FETCH_TIMEOUT")
)

// Source is the capability interface for a remote pattern store. A nil
// Source means the library runs local-only on its fallback tables.
type Source interface {
	FetchIntentPatterns(ctx context.Context) ([]IntentPattern, error)
	FetchEntityPatterns(ctx context.Context) ([]EntityPattern, error)
}

// payloadSchema guards remote payloads before any regex ever compiles.
// A schema violation counts as a fetch failure: the library fails open to
// whichever set it already holds.
const payloadSchema = `{
	"type": "object",
	"required": ["patterns"],
	"properties": {
		"patterns": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type", "pattern", "priority"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1},
					"pattern": {"type": "string", "minLength": 1},
					"priority": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

// HTTPSource fetches pattern sets from the remote pattern store over HTTP.
type HTTPSource struct {
	baseURL    string
	client     *http.Client
	maxRetries int
}

func NewHTTPSource(baseURL string, timeout time.Duration, maxRetries int) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
	}
}

func (s *HTTPSource) FetchIntentPatterns(ctx context.Context) ([]IntentPattern, error) {
	raw, err := s.fetch(ctx, KindIntent)
	if err != nil {
		return nil, err
	}

	out := make([]IntentPattern, 0, len(raw))
	for _, p := range raw {
		out = append(out, IntentPattern{ID: p.ID, IntentType: p.Type, Pattern: p.Pattern, Priority: p.Priority})
	}
	return out, nil
}

func (s *HTTPSource) FetchEntityPatterns(ctx context.Context) ([]EntityPattern, error) {
	raw, err := s.fetch(ctx, KindEntity)
	if err != nil {
		return nil, err
	}

	out := make([]EntityPattern, 0, len(raw))
	for _, p := range raw {
		out = append(out, EntityPattern{ID: p.ID, EntityType: p.Type, Pattern: p.Pattern, Priority: p.Priority})
	}
	return out, nil
}

type rawPattern struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Pattern  string `json:"pattern"`
	Priority int    `json:"priority"`
}

func (s *HTTPSource) fetch(ctx context.Context, kind Kind) ([]rawPattern, error) {
	url := fmt.Sprintf("%s/api/assistant/patterns/%s", s.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrFetchTimeout
			}
		}

		resp, lastErr = s.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrFetchTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrFetchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrFetchFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}

	if err := validatePayload(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var payload struct {
		Patterns []rawPattern `json:"patterns"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrFetchFailed, err)
	}

	return payload.Patterns, nil
}

func validatePayload(body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(payloadSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %v", err)
	}
	if !result.Valid() {
		return fmt.Errorf("payload rejected by schema: %v", result.Errors())
	}
	return nil
}
