package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"blog/internal/imaging"
	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestResize_CropToFit(t *testing.T) {
	r := imaging.NewJPEGResizer()
	src := makePNG(t, 640, 480)

	out, err := r.Resize(src, 500, 200, true)
	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, 500, w)
	assert.Equal(t, 200, h)

	// Portrait source into a square
	out, err = r.Resize(makePNG(t, 120, 300), 150, 150, true)
	require.NoError(t, err)
	w, h = decodeSize(t, out)
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)
}

func TestResize_HeightOnly(t *testing.T) {
	r := imaging.NewJPEGResizer()

	out, err := r.Resize(makePNG(t, 800, 400), 0, 200, false)
	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, 400, w)
	assert.Equal(t, 200, h)
}

func TestResize_FitInsideBox(t *testing.T) {
	r := imaging.NewJPEGResizer()

	out, err := r.Resize(makePNG(t, 800, 400), 200, 200, false)
	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestResize_InvalidInput(t *testing.T) {
	r := imaging.NewJPEGResizer()

	_, err := r.Resize([]byte("definitely not an image"), 100, 100, true)
	assert.ErrorIs(t, err, models.ErrInvalidImage)

	_, err = r.Resize(makePNG(t, 10, 10), 0, 0, false)
	assert.Error(t, err)

	_, err = r.Resize(makePNG(t, 10, 10), 0, 100, true)
	assert.Error(t, err)
}

func TestDeriveSet(t *testing.T) {
	r := imaging.NewJPEGResizer()

	set, err := imaging.DeriveSet(r, makePNG(t, 1200, 800))
	require.NoError(t, err)
	require.Len(t, set, 4)

	expected := map[models.PhotoSize][2]int{
		models.SizeThumb: {300, 200},
		models.SizeSmall: {500, 200},
		models.SizeMed:   {750, 300},
		models.SizeLarge: {1000, 400},
	}
	for size, dims := range expected {
		w, h := decodeSize(t, set[size])
		assert.Equal(t, dims[0], w, "width of %s", size)
		assert.Equal(t, dims[1], h, "height of %s", size)
	}
}

func TestDeriveSet_InvalidImage(t *testing.T) {
	r := imaging.NewJPEGResizer()

	set, err := imaging.DeriveSet(r, []byte("garbage"))
	assert.ErrorIs(t, err, models.ErrInvalidImage)
	assert.Nil(t, set)

	_, err = imaging.DeriveSet(r, nil)
	assert.ErrorIs(t, err, models.ErrInvalidImage)
}

func TestDeriveAvatar(t *testing.T) {
	r := imaging.NewJPEGResizer()

	out, err := imaging.DeriveAvatar(r, makePNG(t, 400, 250))
	require.NoError(t, err)
	w, h := decodeSize(t, out)
	assert.Equal(t, 150, w)
	assert.Equal(t, 150, h)

	_, err = imaging.DeriveAvatar(r, []byte("garbage"))
	assert.ErrorIs(t, err, models.ErrInvalidImage)
	_, err = imaging.DeriveAvatar(r, nil)
	assert.ErrorIs(t, err, models.ErrInvalidImage)
}
