package patterns

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPSource_FetchIntentPatterns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/assistant/patterns/intent", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"patterns":[
			{"id":"p1","type":"send_money","pattern":"send","priority":8},
			{"id":"p2","type":"deposit","pattern":"deposit","priority":7}
		]}`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, 2)
	got, err := src.FetchIntentPatterns(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []IntentPattern{
		{ID: "p1", IntentType: "send_money", Pattern: "send", Priority: 8},
		{ID: "p2", IntentType: "deposit", Pattern: "deposit", Priority: 7},
	}, got)
}

func TestHTTPSource_FetchEntityPatterns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assistant/patterns/entity", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"patterns":[{"id":"e1","type":"amount","pattern":"(\\d+)","priority":10}]}`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, 2)
	got, err := src.FetchEntityPatterns(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []EntityPattern{
		{ID: "e1", EntityType: "amount", Pattern: `(\d+)`, Priority: 10},
	}, got)
}

func TestHTTPSource_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"patterns":[]}`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, 2)
	got, err := src.FetchIntentPatterns(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestHTTPSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, 0)
	_, err := src.FetchIntentPatterns(context.Background())

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestHTTPSource_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := src.FetchIntentPatterns(ctx)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchTimeout))
}

func TestHTTPSource_SchemaViolationRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing patterns key", `{"rules":[]}`},
		{"pattern not a string", `{"patterns":[{"id":"p1","type":"send_money","pattern":42,"priority":8}]}`},
		{"missing priority", `{"patterns":[{"id":"p1","type":"send_money","pattern":"send"}]}`},
		{"empty id", `{"patterns":[{"id":"","type":"send_money","pattern":"send","priority":8}]}`},
		{"not json", `not json {{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			src := NewHTTPSource(server.URL, 5*time.Second, 0)
			_, err := src.FetchIntentPatterns(context.Background())

			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetchFailed))
		})
	}
}
