package models

import (
	"strings"
	"time"
)

// Post represents a blog post written by a single author.
type Post struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title      string    `json:"title" gorm:"type:varchar(300);not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Snippet    string    `json:"snippet" gorm:"type:text"`
	AuthorID   string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author     *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Views      int       `json:"views" gorm:"not null;default:0"`
	Likes      LikeSet   `json:"likes" gorm:"type:text"`
	CommentNum int       `json:"comment_num" gorm:"not null;default:0"`
	Created    time.Time `json:"created" gorm:"autoCreateTime;index"`

	HeaderThumbID string `json:"header_thumb_id,omitempty" gorm:"type:varchar(36)"`
	HeaderSmallID string `json:"header_small_id,omitempty" gorm:"type:varchar(36)"`
	HeaderMedID   string `json:"header_med_id,omitempty" gorm:"type:varchar(36)"`
	HeaderLargeID string `json:"header_large_id,omitempty" gorm:"type:varchar(36)"`

	// Version guards read-modify-write cycles against lost updates.
	Version int `json:"-" gorm:"not null;default:1"`
}

// NewPost builds an unsaved post with its snippet derived from content.
func NewPost(title, content, authorID string) *Post {
	p := &Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Likes:    LikeSet{},
	}
	p.CreateSnippet()
	return p
}

// CreateSnippet sets the snippet to the first line of the content.
func (p *Post) CreateSnippet() {
	p.Snippet, _, _ = strings.Cut(p.Content, "\n")
}

// Edit replaces the title and content with any non-empty argument. The
// snippet follows the content. It reports whether anything changed.
func (p *Post) Edit(newTitle, newContent string) bool {
	changed := false
	if newTitle != "" && newTitle != p.Title {
		p.Title = newTitle
		changed = true
	}
	if newContent != "" && newContent != p.Content {
		p.Content = newContent
		p.CreateSnippet()
		changed = true
	}
	return changed
}

// IsAuthoredBy reports whether userID wrote the post.
func (p *Post) IsAuthoredBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

// Like adds userID to the like set. The author and users already present
// are ignored. It reports whether the set changed.
func (p *Post) Like(userID string) bool {
	if userID == "" || p.IsAuthoredBy(userID) || p.UserLiked(userID) {
		return false
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// Unlike removes userID from the like set and reports whether it was there.
func (p *Post) Unlike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// UserLiked reports whether userID is in the like set.
func (p *Post) UserLiked(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikeCount returns the number of distinct users who liked the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// IncrementViews bumps the view counter by one.
func (p *Post) IncrementViews() {
	p.Views++
}

// FormattedContent returns the body escaped for HTML with newlines as line
// breaks.
func (p *Post) FormattedContent() string {
	return formatText(p.Content)
}

// AuthorName returns the author's full name, or an empty string when the
// author was not loaded.
func (p *Post) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.FullName()
}

// HeaderImageID returns the id of the header rendition of the given size.
func (p *Post) HeaderImageID(size PhotoSize) string {
	switch size {
	case SizeThumb:
		return p.HeaderThumbID
	case SizeSmall:
		return p.HeaderSmallID
	case SizeMed:
		return p.HeaderMedID
	case SizeLarge:
		return p.HeaderLargeID
	}
	return ""
}

// HasHeaderImage reports whether a header image set is attached.
func (p *Post) HasHeaderImage() bool {
	return len(p.HeaderImageIDs()) > 0
}

// HeaderImageIDs returns the ids of every attached header rendition.
func (p *Post) HeaderImageIDs() []string {
	var ids []string
	for _, size := range PhotoSizes {
		if id := p.HeaderImageID(size); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetHeaderImages points the post at a new rendition set keyed by size.
func (p *Post) SetHeaderImages(ids map[PhotoSize]string) {
	p.HeaderThumbID = ids[SizeThumb]
	p.HeaderSmallID = ids[SizeSmall]
	p.HeaderMedID = ids[SizeMed]
	p.HeaderLargeID = ids[SizeLarge]
}
