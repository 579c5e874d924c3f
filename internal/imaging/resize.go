// Package imaging resizes uploaded images and derives the fixed renditions
// used for post headers and avatars.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoders accepted for uploads
	"image/jpeg"
	_ "image/png"
	"math"

	"blog/internal/models"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is the encoder quality used for every rendition.
const DefaultJPEGQuality = 85

// Resizer scales image bytes to target dimensions. A zero width or height
// means that side follows the source aspect ratio. With cropToFit the result
// is scaled and center cropped to exactly width x height.
type Resizer interface {
	Resize(src []byte, width, height int, cropToFit bool) ([]byte, error)
}

// JPEGResizer decodes any registered format and encodes the result as JPEG.
type JPEGResizer struct {
	Quality int
}

// NewJPEGResizer creates a JPEGResizer with DefaultJPEGQuality.
func NewJPEGResizer() *JPEGResizer {
	return &JPEGResizer{Quality: DefaultJPEGQuality}
}

// Resize implements Resizer.
func (r *JPEGResizer) Resize(src []byte, width, height int, cropToFit bool) ([]byte, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	if cropToFit && (width == 0 || height == 0) {
		return nil, fmt.Errorf("crop to fit needs both dimensions, got %dx%d", width, height)
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", models.ErrInvalidImage)
	}

	var out image.Image
	if cropToFit {
		out = scaleCropped(img, width, height)
	} else {
		w, h := fitSize(b.Dx(), b.Dy(), width, height)
		out = scale(img, b, w, h)
	}

	quality := r.Quality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitSize returns the output size that keeps the source aspect ratio. When
// both targets are set the image fits inside the box.
func fitSize(srcW, srcH, width, height int) (int, int) {
	var ratio float64
	switch {
	case width == 0:
		ratio = float64(height) / float64(srcH)
	case height == 0:
		ratio = float64(width) / float64(srcW)
	default:
		ratio = math.Min(float64(width)/float64(srcW), float64(height)/float64(srcH))
	}
	w := int(math.Round(float64(srcW) * ratio))
	h := int(math.Round(float64(srcH) * ratio))
	if width != 0 && w > width {
		w = width
	}
	if height != 0 && h > height {
		h = height
	}
	return max(w, 1), max(h, 1)
}

// scaleCropped picks the largest centered region of src with the target
// aspect ratio and scales it to exactly width x height.
func scaleCropped(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	cropW, cropH := srcW, srcH
	if srcW*height > srcH*width {
		// Source is wider than the target
		cropW = int(math.Round(float64(srcH) * float64(width) / float64(height)))
	} else {
		cropH = int(math.Round(float64(srcW) * float64(height) / float64(width)))
	}
	cropW, cropH = max(cropW, 1), max(cropH, 1)

	x0 := b.Min.X + (srcW-cropW)/2
	y0 := b.Min.Y + (srcH-cropH)/2
	return scale(src, image.Rect(x0, y0, x0+cropW, y0+cropH), width, height)
}

func scale(src image.Image, from image.Rectangle, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, from, xdraw.Src, nil)
	return dst
}
