package outcome

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPSink_PostsEvent(t *testing.T) {
	var received Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/assistant/outcomes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, 5*time.Second)
	event := Event{
		SessionID:  "s1",
		Utterance:  "send 50 to Alice",
		Intent:     "send_money",
		Confidence: 0.9,
		Timestamp:  time.Now().UTC(),
	}

	assert.NoError(t, sink.Log(context.Background(), event))
	assert.Equal(t, "s1", received.SessionID)
	assert.Equal(t, "send_money", received.Intent)
	assert.Equal(t, 0.9, received.Confidence)
}

func TestHTTPSink_CollectorErrorReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, 5*time.Second)
	err := sink.Log(context.Background(), Event{SessionID: "s1"})

	assert.Error(t, err)
}

func TestHTTPSink_UnreachableCollector(t *testing.T) {
	sink := NewHTTPSink("http://127.0.0.1:1", 100*time.Millisecond)
	err := sink.Log(context.Background(), Event{SessionID: "s1"})

	assert.Error(t, err)
}

func TestNopSink(t *testing.T) {
	assert.NoError(t, NopSink{}.Log(context.Background(), Event{SessionID: "s1"}))
}
