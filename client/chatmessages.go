package client

// OpenAI-compatible chat completion wire shapes, as served by the
// ModelScope inference API's /chat/completions endpoint.

type ChatMessage struct {
	Role string `json:"role"`
	// Content is either a plain string or a []MessageContent for
	// multimodal messages.
	Content any `json:"content"`
}

type MessageContent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type ChatResponse struct {
	ID      string       `json:"id"`
	Choices []ChatChoice `json:"choices"`
}

type ChatChoice struct {
	Index        int                 `json:"index"`
	Message      ChatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type ChatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatStreamResponse struct {
	ID      string             `json:"id"`
	Choices []ChatStreamChoice `json:"choices"`
}

type ChatStreamChoice struct {
	Index int             `json:"index"`
	Delta ChatStreamDelta `json:"delta"`
}

type ChatStreamDelta struct {
	Content string `json:"content"`
}

// TextMessage builds a plain text chat message.
func TextMessage(role string, text string) ChatMessage {
	return ChatMessage{Role: role, Content: text}
}

// VisionMessage builds a user message carrying a prompt and an image
// reference (hosted URL or data URI).
func VisionMessage(prompt string, imageURL string) ChatMessage {
	return ChatMessage{
		Role: "user",
		Content: []MessageContent{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageURL}},
		},
	}
}
