package services_test

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"

	"blog/internal/imaging"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/security"
	"blog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a testify mock of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListByName(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func newUserService(repo repositories.UserRepository) *services.UserService {
	return services.NewUserService(repo, security.NewHasher(100), imaging.NewJPEGResizer())
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	alice, err := svc.Register(ctx, services.RegisterInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "pw123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)
	assert.NotContains(t, alice.PasswordHash, "pw123")

	user, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	user, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	_, err := svc.Register(ctx, services.RegisterInput{Username: "alice", FirstName: "A", LastName: "L", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterInput{Username: "alice", FirstName: "B", LastName: "M", Password: "other"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserService_UsernameInUse(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	user, err := svc.UsernameInUse(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, user)

	alice, err := svc.Register(ctx, services.RegisterInput{Username: "alice", FirstName: "A", LastName: "L", Password: "pw123"})
	require.NoError(t, err)

	user, err = svc.UsernameInUse(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, alice.ID, user.ID)
}

func TestUserService_LoginUnknownUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, models.ErrNotFound)

	user, err := svc.Login(context.Background(), "ghost", "pw123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Nil(t, user)
	repo.AssertExpectations(t)
}

func TestUserService_RegisterInvalidAvatar(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), services.RegisterInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "pw123",
		Avatar:    []byte("not an image"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidImage)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_RegisterWithAvatar(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	user, err := svc.Register(ctx, services.RegisterInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "pw123",
		Avatar:    makePNG(t, 400, 300),
	})
	require.NoError(t, err)
	require.True(t, user.HasAvatar())

	img, err := jpeg.Decode(bytes.NewReader(user.AvatarImage))
	require.NoError(t, err)
	assert.Equal(t, 150, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestUserService_ChangeSettings(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	alice, err := svc.Register(ctx, services.RegisterInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "pw123",
		Email:     "alice@example.com",
	})
	require.NoError(t, err)

	updated, err := svc.ChangeSettings(ctx, alice.ID, models.UserSettings{
		Bio:      strPtr("down the rabbit hole"),
		Password: strPtr("newpass"),
	})
	require.NoError(t, err)
	assert.Equal(t, "down the rabbit hole", updated.Bio)

	stored, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	// Absent fields are untouched
	assert.Equal(t, "Alice", stored.FirstName)
	assert.Equal(t, "Liddell", stored.LastName)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Equal(t, "down the rabbit hole", stored.Bio)

	_, err = svc.Login(ctx, "alice", "pw123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "newpass")
	assert.NoError(t, err)
}

func TestUserService_ChangeSettingsInvalidAvatar(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	alice, err := svc.Register(ctx, services.RegisterInput{Username: "alice", FirstName: "Alice", LastName: "Liddell", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.ChangeSettings(ctx, alice.ID, models.UserSettings{
		FirstName: strPtr("Changed"),
		Avatar:    []byte("garbage"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidImage)

	stored, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.FirstName)
	assert.False(t, stored.HasAvatar())
}

func TestUserService_ChangeSettingsNothing(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	user := &models.User{ID: "u1", Username: "alice"}
	repo.On("GetByID", mock.Anything, "u1").Return(user, nil)

	got, err := svc.ChangeSettings(context.Background(), "u1", models.UserSettings{})
	require.NoError(t, err)
	assert.Equal(t, user, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_ListAuthors(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(repositories.NewMockUserRepository())

	for _, in := range []services.RegisterInput{
		{Username: "zed", FirstName: "Zed", LastName: "Alpha", Password: "pw123"},
		{Username: "amy", FirstName: "Amy", LastName: "Pond", Password: "pw123"},
		{Username: "abe", FirstName: "Amy", LastName: "Beta", Password: "pw123"},
	} {
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)
	}

	authors, err := svc.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 3)
	assert.Equal(t, "abe", authors[0].Username)
	assert.Equal(t, "amy", authors[1].Username)
	assert.Equal(t, "zed", authors[2].Username)
}
