// Package outcome reports recognition results to an external collector.
// Reporting is best-effort: the engine swallows sink errors so a failed
// report never affects the user-facing reply.
package outcome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finassist/internal/common/errors"
	httpclient "finassist/internal/common/http"
)

// Event is one recognition outcome, recorded per turn.
type Event struct {
	SessionID      string    `json:"sessionId"`
	Utterance      string    `json:"utterance"`
	Intent         string    `json:"intent"`
	Confidence     float64   `json:"confidence"`
	MatchedPattern string    `json:"matchedPattern,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type Sink interface {
	Log(ctx context.Context, event Event) error
}

// NopSink discards events. Used when outcome reporting is disabled.
type NopSink struct{}

func (NopSink) Log(context.Context, Event) error { return nil }

// HTTPSink posts events to the analytics collector.
type HTTPSink struct {
	baseURL string
	client  *httpclient.Client
}

func NewHTTPSink(baseURL string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		client:  httpclient.NewClient(timeout),
	}
}

func (s *HTTPSink) Log(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.NewOutcomeLogError(err.Error())
	}

	url := fmt.Sprintf("%s/api/assistant/outcomes", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.NewOutcomeLogError(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.NewOutcomeLogError(err.Error())
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewOutcomeLogError(fmt.Sprintf("collector returned status %d", resp.StatusCode))
	}
	return nil
}
