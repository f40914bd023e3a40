package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// ChatCompletion issues a non-streaming chat completion and returns the
// content of the first choice.
func (c *ScopeClient) ChatCompletion(req *ChatRequest) (string, error) {
	req.Stream = false
	resp, err := c.postChat(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 {
		return "", &TaskError{Message: "chat completion returned no choices"}
	}
	return chat.Choices[0].Message.Content, nil
}

// ChatCompletionStream issues a streaming chat completion, invoking
// onToken for every content delta, and returns the accumulated response.
func (c *ScopeClient) ChatCompletionStream(req *ChatRequest, onToken func(string)) (string, error) {
	req.Stream = true
	resp, err := c.postChat(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		data := scanner.Text()
		if !strings.HasPrefix(data, "data: ") {
			continue
		}
		data = strings.TrimPrefix(data, "data: ")
		if strings.HasPrefix(data, "[DONE]") {
			break
		}

		var chunk ChatStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Error("error unmarshalling stream response", "error", err)
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			response.WriteString(choice.Delta.Content)
			if onToken != nil {
				onToken(choice.Delta.Content)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return response.String(), nil
}

func (c *ScopeClient) postChat(req *ChatRequest) (*http.Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	hreq, err := http.NewRequest("POST", c.cfg.APIBaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	hreq.Header.Set("Content-Type", "application/json")

	return c.httpclient.Do(hreq)
}
