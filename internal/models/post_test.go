package models_test

import (
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewPost_Snippet(t *testing.T) {
	post := models.NewPost("T", "L1\nL2", "alice")
	assert.Equal(t, "L1", post.Snippet)
	assert.Equal(t, 0, post.Views)
	assert.Empty(t, post.Likes)

	// No newline: the whole content is the snippet
	post = models.NewPost("T", "only line", "alice")
	assert.Equal(t, "only line", post.Snippet)

	post = models.NewPost("T", "first line\nsecond line", "alice")
	assert.Equal(t, "first line", post.Snippet)
}

func TestPost_LikeIsIdempotent(t *testing.T) {
	post := models.NewPost("T", "body", "alice")

	assert.True(t, post.Like("bob"))
	assert.False(t, post.Like("bob"))
	assert.Equal(t, models.LikeSet{"bob"}, post.Likes)
	assert.True(t, post.UserLiked("bob"))

	// Unlike of an absent user leaves the set unchanged
	assert.False(t, post.Unlike("carol"))
	assert.Equal(t, models.LikeSet{"bob"}, post.Likes)

	assert.True(t, post.Unlike("bob"))
	assert.False(t, post.Unlike("bob"))
	assert.Empty(t, post.Likes)
	assert.False(t, post.UserLiked("bob"))
}

func TestPost_AuthorCannotLike(t *testing.T) {
	post := models.NewPost("T", "body", "alice")
	for i := 0; i < 3; i++ {
		assert.False(t, post.Like("alice"))
	}
	assert.NotContains(t, post.Likes, "alice")
	assert.False(t, post.Like(""))
	assert.Equal(t, 0, post.LikeCount())
}

func TestPost_Edit(t *testing.T) {
	post := models.NewPost("T", "L1\nL2", "alice")

	assert.False(t, post.Edit("", ""))
	assert.False(t, post.Edit("T", "L1\nL2"))

	assert.True(t, post.Edit("New", ""))
	assert.Equal(t, "New", post.Title)
	assert.Equal(t, "L1\nL2", post.Content)

	assert.True(t, post.Edit("", "B1\nB2"))
	assert.Equal(t, "B1", post.Snippet)
}

func TestPost_IncrementViews(t *testing.T) {
	post := models.NewPost("T", "body", "alice")
	post.IncrementViews()
	post.IncrementViews()
	assert.Equal(t, 2, post.Views)
}

func TestPost_HeaderImages(t *testing.T) {
	post := models.NewPost("T", "body", "alice")
	assert.False(t, post.HasHeaderImage())

	post.SetHeaderImages(map[models.PhotoSize]string{
		models.SizeThumb: "t",
		models.SizeSmall: "s",
		models.SizeMed:   "m",
		models.SizeLarge: "l",
	})
	assert.True(t, post.HasHeaderImage())
	assert.Equal(t, []string{"t", "s", "m", "l"}, post.HeaderImageIDs())
	assert.Equal(t, "m", post.HeaderImageID(models.SizeMed))
	assert.Equal(t, "", post.HeaderImageID(models.PhotoSize("huge")))
}

func TestFormatting(t *testing.T) {
	post := models.NewPost("T", "a <b>\nc", "alice")
	assert.Equal(t, "a &lt;b&gt;<br>c", post.FormattedContent())

	post.Author = &models.User{FirstName: "Alice", LastName: "Liddell"}
	assert.Equal(t, "Alice Liddell", post.AuthorName())

	comment := &models.Comment{AuthorID: "bob", Content: "x\ny"}
	assert.Equal(t, "x<br>y", comment.FormattedContent())
	assert.True(t, comment.IsAuthoredBy("bob"))
	assert.False(t, comment.IsAuthoredBy("alice"))
	assert.Equal(t, "", comment.AuthorName())
}

func TestLikeSet_ValueScan(t *testing.T) {
	v, err := models.LikeSet{"a", "b"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	v, err = models.LikeSet(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, `[]`, v)

	var s models.LikeSet
	assert.NoError(t, s.Scan([]byte(`["x"]`)))
	assert.Equal(t, models.LikeSet{"x"}, s)
	assert.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
	assert.Error(t, s.Scan(42))
}
