package nodes

import (
	"fmt"
	"log/slog"

	"github.com/hujuying/ComfyUI-ModelScope-API-test/client"
)

// TextInputs are the caller-supplied parameters of a text generation
// invocation.  Zero values take the schema defaults.
type TextInputs struct {
	UserPrompt   string
	SystemPrompt string
	Model        string
	MaxTokens    int
	Temperature  float64
	Stream       bool
	// OnToken receives each content delta when streaming.
	OnToken func(string)
}

// TextNode is the text generation adapter.  Its result is always a string;
// on failure that string is the human-readable error message.
type TextNode struct {
	c *client.ScopeClient
}

func NewTextNode(c *client.ScopeClient) *TextNode {
	return &TextNode{c: c}
}

func (n *TextNode) Schema() *Schema {
	cfg := n.c.Config()
	return &Schema{
		Name:        "ModelScopeTextNode",
		DisplayName: "ModelScope-Text Generation",
		Category:    Category,
		Inputs: []Input{
			&StringInput{Name: "user_prompt", Multiline: true},
			&StringInput{Name: "system_prompt", Default: "You are a helpful assistant.", Multiline: true, IsOptional: true},
			&StringInput{Name: "model", Default: cfg.DefaultTextModel, IsOptional: true},
			&IntInput{Name: "max_tokens", Default: 2000, Min: 100, Max: 8000, IsOptional: true},
			&FloatInput{Name: "temperature", Default: 0.7, Min: 0.1, Max: 2.0, Step: 0.1, IsOptional: true},
			&BoolInput{Name: "stream", Default: true, IsOptional: true},
		},
	}
}

// Generate produces a completion for the user prompt, streaming tokens to
// OnToken when requested.
func (n *TextNode) Generate(in TextInputs) string {
	schema := n.Schema()
	if in.SystemPrompt == "" {
		in.SystemPrompt = schema.Input("system_prompt").(*StringInput).Default
	}
	if in.Model == "" {
		in.Model = schema.Input("model").(*StringInput).Default
	}
	if in.MaxTokens == 0 {
		in.MaxTokens = 2000
	}
	if in.Temperature == 0 {
		in.Temperature = 0.7
	}

	if err := n.validate(in, schema); err != nil {
		slog.Error("text generation failed", "error", err)
		return fmt.Sprintf("text generation failed: %v", err)
	}

	req := &client.ChatRequest{
		Model: in.Model,
		Messages: []client.ChatMessage{
			client.TextMessage("system", in.SystemPrompt),
			client.TextMessage("user", in.UserPrompt),
		},
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
	}

	var result string
	var err error
	if in.Stream {
		result, err = n.c.ChatCompletionStream(req, in.OnToken)
	} else {
		result, err = n.c.ChatCompletion(req)
	}
	if err != nil {
		slog.Error("text generation failed", "error", err)
		return fmt.Sprintf("text generation failed: %v", err)
	}
	return result
}

func (n *TextNode) validate(in TextInputs, schema *Schema) error {
	if err := validateCommon(n.c, in.UserPrompt); err != nil {
		return err
	}
	if err := schema.Input("max_tokens").(*IntInput).Validate(int64(in.MaxTokens)); err != nil {
		return &client.ValidationError{Field: "max_tokens", Reason: err.Error()}
	}
	if err := schema.Input("temperature").(*FloatInput).Validate(in.Temperature); err != nil {
		return &client.ValidationError{Field: "temperature", Reason: err.Error()}
	}
	return nil
}
