package models

import "time"

// PhotoSize tags a header image rendition.
type PhotoSize string

const (
	SizeThumb PhotoSize = "thumb"
	SizeSmall PhotoSize = "small"
	SizeMed   PhotoSize = "med"
	SizeLarge PhotoSize = "large"
)

// PhotoSizes lists every rendition a post header carries.
var PhotoSizes = []PhotoSize{SizeThumb, SizeSmall, SizeMed, SizeLarge}

// Valid reports whether s is one of the known sizes.
func (s PhotoSize) Valid() bool {
	for _, size := range PhotoSizes {
		if s == size {
			return true
		}
	}
	return false
}

// PostPhoto is one stored rendition of a post header image. It is owned
// exclusively by its post.
type PostPhoto struct {
	ID      string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID  string    `json:"post_id" gorm:"type:varchar(36);not null;index"`
	Size    PhotoSize `json:"size" gorm:"type:varchar(10);not null"`
	Image   []byte    `json:"-" gorm:"not null"`
	Created time.Time `json:"created" gorm:"autoCreateTime"`
}
