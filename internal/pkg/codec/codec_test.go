package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "vhi.jpg", want: true},
		{name: "laya.PNG", want: true},
		{name: "scan.tiff", want: true},
		{name: "anim.gif", want: true},
		{name: "notes.txt", want: false},
		{name: "noext", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupported(tt.name))
		})
	}
}

// TestSaveAndOpen round-trips a transparent image through a nested path
func TestSaveAndOpen(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	img.SetNRGBA(2, 1, color.NRGBA{R: 12, G: 34, B: 56, A: 255})

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	require.NoError(t, Save(path, img))

	loaded, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())

	r, g, b, a := loaded.At(2, 1).RGBA()
	assert.Equal(t, []uint32{12, 34, 56, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
	_, _, _, a = loaded.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestDecodeJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedImage)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestEncodeDeterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}

	var first, second bytes.Buffer
	require.NoError(t, Encode(&first, img))
	require.NoError(t, Encode(&second, img))
	assert.Equal(t, first.Bytes(), second.Bytes())
}
