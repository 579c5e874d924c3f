package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blog/internal/config"
	"blog/internal/models"
	"blog/internal/repositories"
)

// MockPurgeQueue is a mock implementation of the RabbitMQ purge publisher.
type MockPurgeQueue struct {
	mock.Mock
}

func (m *MockPurgeQueue) PublishPostPurge(postID string) error {
	args := m.Called(postID)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		AppPort:            ":0",
		AppEnv:             "test",
		DatabaseDriver:     "sqlite",
		DatabaseDSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		SessionSecret:      "test_session_secret",
		SessionTTL:         time.Hour,
		SessionCookie:      "user",
		PasswordIterations: 100,
		RecentPostsLimit:   2,
	}
}

func openDB(t *testing.T, cfg config.Config) *gorm.DB {
	t.Helper()
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createAuthor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	author := &models.User{Username: "alice", FirstName: "Alice", LastName: "Liddell", PasswordHash: "salt,digest"}
	require.NoError(t, repositories.NewGORMUserRepository(db).Create(t.Context(), author))
	return author
}

func TestHealthCheck(t *testing.T) {
	cfg := testConfig()
	app, _ := buildApp(cfg, openDB(t, cfg), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["rabbitMQ"])
}

func TestRecentPostsLimit(t *testing.T) {
	cfg := testConfig()
	db := openDB(t, cfg)
	app, postService := buildApp(cfg, db, nil)

	author := createAuthor(t, db)
	for i := 0; i < 3; i++ {
		_, err := postService.CreatePost(t.Context(), author, fmt.Sprintf("post %d", i), "body", nil)
		require.NoError(t, err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var posts []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, cfg.RecentPostsLimit)
}

func TestSessionCookieName(t *testing.T) {
	cfg := testConfig()
	cfg.SessionCookie = "blog_session"
	app, _ := buildApp(cfg, openDB(t, cfg), nil)

	body := `{"username":"alice","first_name":"Alice","last_name":"Liddell","password":"pw123","verify":"pw123"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var names []string
	for _, c := range resp.Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "blog_session")
}

func TestDeleteFallsBackToPurgeQueue(t *testing.T) {
	cfg := testConfig()
	db := openDB(t, cfg)
	queue := new(MockPurgeQueue)
	_, postService := buildApp(cfg, db, queue)

	author := createAuthor(t, db)
	post, err := postService.CreatePost(t.Context(), author, "T", "body", nil)
	require.NoError(t, err)

	// Dropping the comments table makes the cascade fail part way
	require.NoError(t, db.Migrator().DropTable(&models.Comment{}))
	queue.On("PublishPostPurge", post.ID).Return(nil).Once()

	require.NoError(t, postService.DeletePost(t.Context(), post.ID))
	queue.AssertExpectations(t)

	require.NoError(t, db.AutoMigrate(&models.Comment{}))
	require.NoError(t, postService.PurgePost(t.Context(), post.ID))
	_, err = postService.GetPost(t.Context(), post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
