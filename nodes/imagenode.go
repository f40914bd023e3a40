package nodes

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/hujuying/ComfyUI-ModelScope-API-test/client"
	"github.com/hujuying/ComfyUI-ModelScope-API-test/tensor"
)

// maxSeed is the largest fixed seed the service accepts; -1 asks for a
// random one.
const maxSeed = 2147483647

// GenerateInputs are the caller-supplied parameters of a text-to-image
// invocation.  Zero values take the schema defaults.
type GenerateInputs struct {
	Prompt         string
	Model          string
	NegativePrompt string
	Width          int
	Height         int
	Seed           int64
	Steps          int
	Guidance       float64
}

// ImageNode is the text-to-image adapter.  A total failure anywhere in the
// pipeline yields a uniformly colored placeholder of the requested size
// instead of an error, keeping the host graph running.
type ImageNode struct {
	c *client.ScopeClient
}

func NewImageNode(c *client.ScopeClient) *ImageNode {
	return &ImageNode{c: c}
}

// Schema declares the node's inputs with their ranges and defaults.
func (n *ImageNode) Schema() *Schema {
	cfg := n.c.Config()
	return &Schema{
		Name:        "ModelScopeImageNode",
		DisplayName: "ModelScope-Image Generation",
		Category:    Category,
		Inputs: []Input{
			&StringInput{Name: "prompt", Default: cfg.DefaultPrompt, Multiline: true},
			&StringInput{Name: "model", Default: cfg.DefaultModel, IsOptional: true},
			&StringInput{Name: "negative_prompt", Multiline: true, IsOptional: true},
			&IntInput{Name: "width", Default: 512, Min: 64, Max: 2048, Step: 64, IsOptional: true},
			&IntInput{Name: "height", Default: 512, Min: 64, Max: 2048, Step: 64, IsOptional: true},
			&IntInput{Name: "seed", Default: -1, Min: -1, Max: maxSeed, IsOptional: true},
			&IntInput{Name: "steps", Default: 30, Min: 1, Max: 100, IsOptional: true},
			&FloatInput{Name: "guidance", Default: 7.5, Min: 1.5, Max: 20.0, Step: 0.1, IsOptional: true},
		},
	}
}

// Generate runs the request end to end and always returns an image: the
// generated one, or on any failure a placeholder of the requested size.
func (n *ImageNode) Generate(in GenerateInputs) *tensor.Image {
	schema := n.Schema()
	applyGenerateDefaults(&in, schema)

	if err := n.validate(in, schema); err != nil {
		slog.Error("image generation failed", "error", err)
		return errorPlaceholder(in.Width, in.Height)
	}

	req := &client.GenerationRequest{
		Model:    in.Model,
		Prompt:   in.Prompt,
		Size:     fmt.Sprintf("%dx%d", in.Width, in.Height),
		Steps:    in.Steps,
		Guidance: in.Guidance,
	}
	if strings.TrimSpace(in.NegativePrompt) != "" {
		req.NegativePrompt = in.NegativePrompt
	}

	// The generate path always submits a seed; -1 is replaced with a
	// random one so reruns produce fresh images.
	seed := in.Seed
	if seed == -1 {
		seed = rand.Int63n(maxSeed + 1)
		slog.Info("using random seed", "seed", seed)
	}
	req.Seed = &seed

	img, err := n.c.GenerateImage(req)
	if err != nil {
		slog.Error("image generation failed", "error", err)
		return errorPlaceholder(in.Width, in.Height)
	}
	return img
}

func applyGenerateDefaults(in *GenerateInputs, schema *Schema) {
	if in.Model == "" {
		in.Model = schema.Input("model").(*StringInput).Default
	}
	if in.Width == 0 {
		in.Width = 512
	}
	if in.Height == 0 {
		in.Height = 512
	}
	if in.Steps == 0 {
		in.Steps = 30
	}
	if in.Guidance == 0 {
		in.Guidance = 7.5
	}
}

func (n *ImageNode) validate(in GenerateInputs, schema *Schema) error {
	if err := validateCommon(n.c, in.Prompt); err != nil {
		return err
	}
	if err := schema.Input("width").(*IntInput).Validate(int64(in.Width)); err != nil {
		return &client.ValidationError{Field: "width", Reason: err.Error()}
	}
	if err := schema.Input("height").(*IntInput).Validate(int64(in.Height)); err != nil {
		return &client.ValidationError{Field: "height", Reason: err.Error()}
	}
	if err := schema.Input("seed").(*IntInput).Validate(in.Seed); err != nil {
		return &client.ValidationError{Field: "seed", Reason: err.Error()}
	}
	if err := schema.Input("steps").(*IntInput).Validate(int64(in.Steps)); err != nil {
		return &client.ValidationError{Field: "steps", Reason: err.Error()}
	}
	if err := schema.Input("guidance").(*FloatInput).Validate(in.Guidance); err != nil {
		return &client.ValidationError{Field: "guidance", Reason: err.Error()}
	}
	return nil
}

func validateCommon(c *client.ScopeClient, prompt string) error {
	if strings.TrimSpace(c.Config().APIToken) == "" {
		return &client.ValidationError{Field: "api_token", Reason: "a valid API token is required"}
	}
	if strings.TrimSpace(prompt) == "" {
		return &client.ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	return nil
}

// errorPlaceholder is the degraded result of the generate path: a solid
// red image of the requested size, batched like a real result.
func errorPlaceholder(width int, height int) *tensor.Image {
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 512
	}
	return tensor.Uniform(width, height, 1, 0, 0).WithBatch()
}
