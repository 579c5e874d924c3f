package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// readUpload returns the bytes of the named multipart file, or nil when the
// request carries none.
func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File[field]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}
	if files[0].Size > maxUploadBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Image is too large")
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", field, err)
	}
	return data, nil
}
