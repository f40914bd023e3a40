package nodes

import (
	"fmt"
	"log/slog"

	"github.com/hujuying/ComfyUI-ModelScope-API-test/client"
	"github.com/hujuying/ComfyUI-ModelScope-API-test/tensor"
)

// VisionInputs are the caller-supplied parameters of an image-to-text
// invocation.  Zero values take the schema defaults.
type VisionInputs struct {
	Image       *tensor.Image
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// VisionNode is the image-to-text adapter.  The image travels inline as a
// JPEG data URI; the result is always a string, an error message on
// failure.
type VisionNode struct {
	c *client.ScopeClient
}

func NewVisionNode(c *client.ScopeClient) *VisionNode {
	return &VisionNode{c: c}
}

func (n *VisionNode) Schema() *Schema {
	cfg := n.c.Config()
	return &Schema{
		Name:        "ModelScopeVisionNode",
		DisplayName: "ModelScope-Vision Description",
		Category:    Category,
		Inputs: []Input{
			&ImageInput{Name: "image"},
			&StringInput{Name: "prompt", Default: "Describe this image", Multiline: true},
			&StringInput{Name: "model", Default: cfg.DefaultVisionModel, IsOptional: true},
			&IntInput{Name: "max_tokens", Default: 1000, Min: 100, Max: 4000, IsOptional: true},
			&FloatInput{Name: "temperature", Default: 0.7, Min: 0.1, Max: 2.0, Step: 0.1, IsOptional: true},
		},
	}
}

// Describe sends the image and prompt to a vision model and returns the
// description.
func (n *VisionNode) Describe(in VisionInputs) string {
	schema := n.Schema()
	if in.Model == "" {
		in.Model = schema.Input("model").(*StringInput).Default
	}
	if in.MaxTokens == 0 {
		in.MaxTokens = 1000
	}
	if in.Temperature == 0 {
		in.Temperature = 0.7
	}

	if err := n.validate(in, schema); err != nil {
		slog.Error("image analysis failed", "error", err)
		return fmt.Sprintf("image analysis failed: %v", err)
	}

	imageURL, err := in.Image.DataURI()
	if err != nil {
		slog.Error("image analysis failed", "error", err)
		return fmt.Sprintf("image analysis failed: %v", err)
	}

	req := &client.ChatRequest{
		Model:       in.Model,
		Messages:    []client.ChatMessage{client.VisionMessage(in.Prompt, imageURL)},
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
	}

	description, err := n.c.ChatCompletion(req)
	if err != nil {
		slog.Error("image analysis failed", "error", err)
		return fmt.Sprintf("image analysis failed: %v", err)
	}
	return description
}

func (n *VisionNode) validate(in VisionInputs, schema *Schema) error {
	if in.Image == nil {
		return &client.ValidationError{Field: "image", Reason: "a source image is required"}
	}
	if err := validateCommon(n.c, in.Prompt); err != nil {
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
