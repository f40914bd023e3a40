package tensor

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformFill(t *testing.T) {
	img := Uniform(8, 4, 1, 0, 0)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 4, img.Height)
	require.Len(t, img.Pix, 8*4*3)
	for i := 0; i < len(img.Pix); i += 3 {
		assert.Equal(t, float32(1), img.Pix[i])
		assert.Equal(t, float32(0), img.Pix[i+1])
		assert.Equal(t, float32(0), img.Pix[i+2])
	}
}

func TestBatchDimension(t *testing.T) {
	img := Uniform(4, 4, 0.5, 0.5, 0.5)
	assert.False(t, img.Batched)

	batched := img.WithBatch()
	assert.True(t, batched.Batched)
	// the original is untouched
	assert.False(t, img.Batched)

	squeezed := batched.Squeeze()
	assert.False(t, squeezed.Batched)
	assert.Equal(t, img.Pix, squeezed.Pix)
}

func TestToImageByteRangeValues(t *testing.T) {
	// values above 1.0 mean the buffer is already byte-range
	img := New(2, 1)
	copy(img.Pix, []float32{255, 128, 0, 300, -5, 64})

	rgba := img.ToImage()
	c := rgba.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)

	// out of range values are clipped
	c = rgba.RGBAAt(1, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(64), c.B)
}

func TestFromImageNormalizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 51, A: 255})

	img := FromImage(src)
	assert.InDelta(t, 1.0, img.Pix[0], 1e-6)
	assert.InDelta(t, 0.0, img.Pix[1], 1e-6)
	assert.InDelta(t, 0.2, img.Pix[2], 1e-2)
}

func TestDecodePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 3; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 10, G: 200, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 5, img.Height)
	assert.False(t, img.Batched)
	assert.InDelta(t, 200.0/255.0, img.Pix[1], 1e-2)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDataURIRoundTrip(t *testing.T) {
	img := Uniform(64, 64, 0.25, 0.5, 0.75).WithBatch()

	uri, err := img.DataURI()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Width)
	assert.Equal(t, 64, decoded.Height)

	// JPEG at quality 85 is lossy; values match within tolerance, not
	// bit-exact
	for i := 0; i < len(decoded.Pix); i += 3 {
		assert.InDelta(t, 0.25, decoded.Pix[i], 0.05)
		assert.InDelta(t, 0.5, decoded.Pix[i+1], 0.05)
		assert.InDelta(t, 0.75, decoded.Pix[i+2], 0.05)
	}
}

func TestClone(t *testing.T) {
	img := Uniform(2, 2, 0.1, 0.2, 0.3)
	dup := img.Clone()
	dup.Pix[0] = 0.9
	assert.Equal(t, float32(0.1), img.Pix[0])
}
