// Package tensor models the host's image buffer: float32 RGB pixels,
// channel-last, normalized to [0,1], with an optional leading batch
// dimension of size 1.
package tensor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// InlineJPEGQuality is the fixed quality used when an image is re-encoded
// for an inline data URI payload.
const InlineJPEGQuality = 85

// Image is a host-native image buffer.  Pix holds Width*Height*3 float32
// values in row-major, channel-last order.  Batched marks a leading batch
// dimension of size 1; the pixel data is unaffected by it.
type Image struct {
	Width   int
	Height  int
	Batched bool
	Pix     []float32
}

// New creates a zero-filled image of the given size.
func New(width int, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}
}

// Uniform creates an image of the given size filled with a single color.
// Color components are normalized [0,1] values.
func Uniform(width int, height int, r, g, b float32) *Image {
	t := New(width, height)
	for i := 0; i < len(t.Pix); i += 3 {
		t.Pix[i] = r
		t.Pix[i+1] = g
		t.Pix[i+2] = b
	}
	return t
}

// FromImage converts a decoded image into a normalized buffer.  Non-RGB
// color modes are converted through the color model.
func FromImage(img image.Image) *Image {
	bounds := img.Bounds()
	t := New(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			t.Pix[i] = float32(r>>8) / 255.0
			t.Pix[i+1] = float32(g>>8) / 255.0
			t.Pix[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}
	return t
}

// Decode interprets raw bytes as an image (JPEG, PNG, GIF or WebP) and
// converts it to a normalized RGB buffer without a batch dimension.
func Decode(data []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// Squeeze drops a leading batch dimension of size 1 if present.
func (t *Image) Squeeze() *Image {
	if !t.Batched {
		return t
	}
	s := t.Clone()
	s.Batched = false
	return s
}

// WithBatch adds a leading batch dimension of size 1.
func (t *Image) WithBatch() *Image {
	if t.Batched {
		return t
	}
	s := t.Clone()
	s.Batched = true
	return s
}

// Clone returns a deep copy of the buffer.
func (t *Image) Clone() *Image {
	s := &Image{
		Width:   t.Width,
		Height:  t.Height,
		Batched: t.Batched,
		Pix:     make([]float32, len(t.Pix)),
	}
	copy(s.Pix, t.Pix)
	return s
}

func (t *Image) max() float32 {
	var m float32
	for _, v := range t.Pix {
		if v > m {
			m = v
		}
	}
	return m
}

// ToImage renders the buffer to a standard RGBA image.  Buffers whose
// values exceed 1.0 are treated as already byte-range; everything else is
// scaled from [0,1].  Values are clipped to [0,255].
func (t *Image) ToImage() *image.RGBA {
	scale := float32(255.0)
	if t.max() > 1.0 {
		scale = 1.0
	}
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	i := 0
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: clipByte(t.Pix[i] * scale),
				G: clipByte(t.Pix[i+1] * scale),
				B: clipByte(t.Pix[i+2] * scale),
				A: 255,
			})
			i += 3
		}
	}
	return img
}

func clipByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// EncodeJPEG re-encodes the buffer as JPEG at the given quality.  A leading
// batch dimension is squeezed before encoding.
func (t *Image) EncodeJPEG(quality int) ([]byte, error) {
	var buffer bytes.Buffer
	img := t.Squeeze().ToImage()
	if err := jpeg.Encode(&buffer, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DataURI encodes the buffer as a base64 JPEG data URI suitable for an
// inline request payload.
func (t *Image) DataURI() (string, error) {
	data, err := t.EncodeJPEG(InlineJPEGQuality)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(data)), nil
}
