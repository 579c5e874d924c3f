package imaging

import (
	"fmt"

	"blog/internal/models"
)

// Target describes one rendition.
type Target struct {
	Width     int
	Height    int
	CropToFit bool
}

// HeaderTargets are the fixed post header renditions. The thumbnail only
// bounds the height.
var HeaderTargets = map[models.PhotoSize]Target{
	models.SizeThumb: {Height: 200},
	models.SizeSmall: {Width: 500, Height: 200, CropToFit: true},
	models.SizeMed:   {Width: 750, Height: 300, CropToFit: true},
	models.SizeLarge: {Width: 1000, Height: 400, CropToFit: true},
}

// AvatarTarget is the square avatar rendition.
var AvatarTarget = Target{Width: 150, Height: 150, CropToFit: true}

// Apply resizes src to t.
func (t Target) Apply(r Resizer, src []byte) ([]byte, error) {
	return r.Resize(src, t.Width, t.Height, t.CropToFit)
}

// DeriveAvatar produces the square avatar rendition from one source image.
func DeriveAvatar(r Resizer, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty upload", models.ErrInvalidImage)
	}
	out, err := AvatarTarget.Apply(r, src)
	if err != nil {
		return nil, fmt.Errorf("failed to derive avatar rendition: %w", err)
	}
	return out, nil
}

// DeriveSet produces every header rendition from one source image. Either all
// four are returned or none.
func DeriveSet(r Resizer, src []byte) (map[models.PhotoSize][]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty upload", models.ErrInvalidImage)
	}

	set := make(map[models.PhotoSize][]byte, len(models.PhotoSizes))
	for _, size := range models.PhotoSizes {
		out, err := HeaderTargets[size].Apply(r, src)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s rendition: %w", size, err)
		}
		set[size] = out
	}
	return set, nil
}
