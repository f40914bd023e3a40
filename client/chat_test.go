package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Write([]byte(`{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.ChatCompletion(&ChatRequest{
		Model: "m",
		Messages: []ChatMessage{
			TextMessage("system", "You are a helpful assistant."),
			TextMessage("user", "hi"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestChatCompletionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ChatCompletion(&ChatRequest{Model: "m"})

	var terr *TaskError
	require.ErrorAs(t, err, &terr)
}

func TestChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad token"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ChatCompletion(&ChatRequest{Model: "m"})

	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
}

func TestChatCompletionStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"id\":\"1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"hel\"}}]}\n\n"))
		w.Write([]byte(": keepalive comment\n\n"))
		w.Write([]byte("data: {\"id\":\"1\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	var tokens []string
	c := newTestClient(srv.URL)
	out, err := c.ChatCompletionStream(&ChatRequest{Model: "m"}, func(tok string) {
		tokens = append(tokens, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, []string{"hel", "lo"}, tokens)
}

func TestVisionMessageShape(t *testing.T) {
	msg := VisionMessage("describe", "data:image/jpeg;base64,xyz")
	assert.Equal(t, "user", msg.Role)

	parts, ok := msg.Content.([]MessageContent)
	require.True(t, ok)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, "data:image/jpeg;base64,xyz", parts[1].ImageURL.URL)
}
