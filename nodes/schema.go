// Package nodes exposes the host-facing adapters: image generation, image
// editing, text generation and image-to-text.  Each adapter declares a
// static, typed input schema and maps every failure to a degraded result
// so a running host graph is never interrupted.
package nodes

import "fmt"

// Input is a node's declared input.  Declared input types:
// "INT"		an int64 with optional range and step
// "FLOAT"		a float64 with optional range
// "STRING"		a single line, or multiline string
// "BOOLEAN"	a labeled bool value
// "IMAGE"		a host image buffer
type Input interface {
	InputName() string
	TypeString() string
	Optional() bool
}

type IntInput struct {
	Name       string
	Default    int64
	Min        int64
	Max        int64
	Step       int64
	IsOptional bool
}

func (p *IntInput) InputName() string  { return p.Name }
func (p *IntInput) TypeString() string { return "INT" }
func (p *IntInput) Optional() bool     { return p.IsOptional }

// Validate checks the range and, when a step greater than 1 is declared,
// the step alignment relative to the minimum.
func (p *IntInput) Validate(v int64) error {
	if v < p.Min || v > p.Max {
		return fmt.Errorf("%s must be in [%d, %d], got %d", p.Name, p.Min, p.Max, v)
	}
	if p.Step > 1 && (v-p.Min)%p.Step != 0 {
		return fmt.Errorf("%s must align to a step of %d, got %d", p.Name, p.Step, v)
	}
	return nil
}

type FloatInput struct {
	Name       string
	Default    float64
	Min        float64
	Max        float64
	Step       float64
	IsOptional bool
}

func (p *FloatInput) InputName() string  { return p.Name }
func (p *FloatInput) TypeString() string { return "FLOAT" }
func (p *FloatInput) Optional() bool     { return p.IsOptional }

func (p *FloatInput) Validate(v float64) error {
	if v < p.Min || v > p.Max {
		return fmt.Errorf("%s must be in [%g, %g], got %g", p.Name, p.Min, p.Max, v)
	}
	return nil
}

type StringInput struct {
	Name        string
	Default     string
	Multiline   bool
	Placeholder string
	IsOptional  bool
}

func (p *StringInput) InputName() string  { return p.Name }
func (p *StringInput) TypeString() string { return "STRING" }
func (p *StringInput) Optional() bool     { return p.IsOptional }

type BoolInput struct {
	Name       string
	Default    bool
	IsOptional bool
}

func (p *BoolInput) InputName() string  { return p.Name }
func (p *BoolInput) TypeString() string { return "BOOLEAN" }
func (p *BoolInput) Optional() bool     { return p.IsOptional }

type ImageInput struct {
	Name       string
	IsOptional bool
}

func (p *ImageInput) InputName() string  { return p.Name }
func (p *ImageInput) TypeString() string { return "IMAGE" }
func (p *ImageInput) Optional() bool     { return p.IsOptional }

// Schema is a node's input declaration as presented to the host.
type Schema struct {
	Name        string
	DisplayName string
	Category    string
	Inputs      []Input
}

// Input returns the declared input with the given name, or nil.
func (s *Schema) Input(name string) Input {
	for _, in := range s.Inputs {
		if in.InputName() == name {
			return in
		}
	}
	return nil
}

// Category shared by all ModelScope adapters.
const Category = "ModelScopeAPI"
