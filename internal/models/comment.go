package models

import "time"

// Comment is a reply bound to exactly one post and one author.
type Comment struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID   string    `json:"post_id" gorm:"type:varchar(36);not null;index"`
	AuthorID string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Content  string    `json:"content" gorm:"type:text;not null"`
	Created  time.Time `json:"created" gorm:"autoCreateTime;index"`
}

// IsAuthoredBy reports whether userID wrote the comment.
func (c *Comment) IsAuthoredBy(userID string) bool {
	return userID != "" && c.AuthorID == userID
}

// FormattedContent returns the comment escaped for HTML with newlines as
// line breaks.
func (c *Comment) FormattedContent() string {
	return formatText(c.Content)
}

// AuthorName returns the author's full name when the author was loaded.
func (c *Comment) AuthorName() string {
	if c.Author == nil {
		return ""
	}
	return c.Author.FullName()
}
