package nodes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hujuying/ComfyUI-ModelScope-API-test/client"
	"github.com/hujuying/ComfyUI-ModelScope-API-test/tensor"
)

// Edit-path defaults; parameters matching them are elided from the payload.
const (
	editDefaultSize     = 512
	editDefaultSteps    = 30
	editDefaultGuidance = 3.5
)

// EditInputs are the caller-supplied parameters of an image-edit
// invocation.  Zero values take the schema defaults.
type EditInputs struct {
	Image          *tensor.Image
	Prompt         string
	Model          string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	Guidance       float64
	Seed           int64
}

// ImageEditNode is the image-edit adapter.  A total failure returns the
// original input image unchanged.
type ImageEditNode struct {
	c *client.ScopeClient
}

func NewImageEditNode(c *client.ScopeClient) *ImageEditNode {
	return &ImageEditNode{c: c}
}

func (n *ImageEditNode) Schema() *Schema {
	return &Schema{
		Name:        "ModelScopeImageEditNode",
		DisplayName: "ModelScope-Image Edit",
		Category:    Category,
		Inputs: []Input{
			&ImageInput{Name: "image"},
			&StringInput{Name: "prompt", Default: "Modify the image content", Multiline: true},
			&StringInput{Name: "model", Default: "Qwen/Qwen-Image-Edit", IsOptional: true},
			&StringInput{Name: "negative_prompt", Multiline: true, IsOptional: true},
			&IntInput{Name: "width", Default: editDefaultSize, Min: 64, Max: 1664, Step: 8, IsOptional: true},
			&IntInput{Name: "height", Default: editDefaultSize, Min: 64, Max: 1664, Step: 8, IsOptional: true},
			&IntInput{Name: "steps", Default: editDefaultSteps, Min: 1, Max: 100, IsOptional: true},
			&FloatInput{Name: "guidance", Default: editDefaultGuidance, Min: 1.5, Max: 20.0, Step: 0.1, IsOptional: true},
			&IntInput{Name: "seed", Default: -1, Min: -1, Max: maxSeed, IsOptional: true},
		},
	}
}

// Edit runs the edit request end to end and always returns an image: the
// edited one, or on any failure the input image unchanged.
func (n *ImageEditNode) Edit(in EditInputs) *tensor.Image {
	schema := n.Schema()
	applyEditDefaults(&in, schema)

	if err := n.validate(in, schema); err != nil {
		slog.Error("image edit failed", "error", err)
		return in.Image
	}

	req := &client.GenerationRequest{
		Model:  in.Model,
		Prompt: in.Prompt,
	}
	if strings.TrimSpace(in.NegativePrompt) != "" {
		req.NegativePrompt = in.NegativePrompt
	}

	// Parameters at their defaults are left out of the payload so the
	// service applies its own, matching the host plugin's behavior.
	if in.Width != editDefaultSize || in.Height != editDefaultSize {
		req.Size = fmt.Sprintf("%dx%d", in.Width, in.Height)
	}
	if in.Steps != editDefaultSteps {
		req.Steps = in.Steps
	}
	if in.Guidance != editDefaultGuidance {
		req.Guidance = in.Guidance
	}
	if in.Seed != -1 {
		seed := in.Seed
		req.Seed = &seed
	}

	img, err := n.c.EditImage(req, in.Image)
	if err != nil {
		slog.Error("image edit failed", "error", err)
		return in.Image
	}
	return img
}

func applyEditDefaults(in *EditInputs, schema *Schema) {
	if in.Model == "" {
		in.Model = schema.Input("model").(*StringInput).Default
	}
	if in.Width == 0 {
		in.Width = editDefaultSize
	}
	if in.Height == 0 {
		in.Height = editDefaultSize
	}
	if in.Steps == 0 {
		in.Steps = editDefaultSteps
	}
	if in.Guidance == 0 {
		in.Guidance = editDefaultGuidance
	}
}

func (n *ImageEditNode) validate(in EditInputs, schema *Schema) error {
	if in.Image == nil {
		return &client.ValidationError{Field: "image", Reason: "a source image is required"}
	}
	if err := validateCommon(n.c, in.Prompt); err != nil {
		return err
	}
	if err := schema.Input("width").(*IntInput).Validate(int64(in.Width)); err != nil {
		return &client.ValidationError{Field: "width", Reason: err.Error()}
	}
	if err := schema.Input("height").(*IntInput).Validate(int64(in.Height)); err != nil {
		return &client.ValidationError{Field: "height", Reason: err.Error()}
	}
	if err := schema.Input("steps").(*IntInput).Validate(int64(in.Steps)); err != nil {
		return &client.ValidationError{Field: "steps", Reason: err.Error()}
	}
	if err := schema.Input("guidance").(*FloatInput).Validate(in.Guidance); err != nil {
		return &client.ValidationError{Field: "guidance", Reason: err.Error()}
	}
	if err := schema.Input("seed").(*IntInput).Validate(in.Seed); err != nil {
		return &client.ValidationError{Field: "seed", Reason: err.Error()}
	}
	return nil
}
