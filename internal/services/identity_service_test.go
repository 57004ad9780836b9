package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"

	"gamestore/internal/models"
	"gamestore/internal/repositories"
	"gamestore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByGamertag(gamertag string) (*models.User, error) {
	args := m.Called(gamertag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByFriendCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(id uint, isAdmin bool) error {
	args := m.Called(id, isAdmin)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func notFoundErr() error {
	return fmt.Errorf("user: %w", repositories.ErrNotFound)
}

func TestIdentityService_Register_FirstUserBecomesAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewIdentityService(mockRepo)

	mockRepo.On("GetByUsername", "alice").Return(nil, notFoundErr()).Once()
	mockRepo.On("GetByGamertag", "ALICE01").Return(nil, notFoundErr()).Once()
	mockRepo.On("Count").Return(int64(0), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := service.Register("alice", "ALICE01", "pw1")
	assert.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.NotEmpty(t, user.FriendCode)
	assert.NotEqual(t, "pw1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")))
	mockRepo.AssertExpectations(t)

	// Every later registration is a regular user.
	mockRepo.On("GetByUsername", "bob").Return(nil, notFoundErr()).Once()
	mockRepo.On("GetByGamertag", "BOB01").Return(nil, notFoundErr()).Once()
	mockRepo.On("Count").Return(int64(1), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err = service.Register("bob", "BOB01", "pw2")
	assert.NoError(t, err)
	assert.False(t, user.IsAdmin)
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_Register_Conflicts(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewIdentityService(mockRepo)

	// Username already in use.
	mockRepo.On("GetByUsername", "alice").Return(&models.User{ID: 1}, nil).Once()
	_, err := service.Register("alice", "ALICE01", "pw")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Gamertag already in use.
	mockRepo.On("GetByUsername", "alice2").Return(nil, notFoundErr()).Once()
	mockRepo.On("GetByGamertag", "ALICE01").Return(&models.User{ID: 1}, nil).Once()
	_, err = service.Register("alice2", "ALICE01", "pw")
	assert.ErrorIs(t, err, services.ErrGamertagTaken)
	mockRepo.AssertExpectations(t)

	// Concurrent registration raced past the checks; the unique index
	// fails the insert and the conflict must surface as recoverable.
	mockRepo.On("GetByUsername", "carol").Return(nil, notFoundErr()).Once()
	mockRepo.On("GetByGamertag", "CAROL01").Return(nil, notFoundErr()).Once()
	mockRepo.On("Count").Return(int64(2), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("user conflicts with an existing account: %w", repositories.ErrDuplicate)).Once()
	_, err = service.Register("carol", "CAROL01", "pw")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_Register_EmptyFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewIdentityService(mockRepo)

	_, err := service.Register("", "TAG", "pw")
	assert.Error(t, err)
	_, err = service.Register("name", "", "pw")
	assert.Error(t, err)
	_, err = service.Register("name", "TAG", "")
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestIdentityService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewIdentityService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           7,
		Username:     "testuser",
		Gamertag:     "TESTER",
		PasswordHash: string(hashedPassword),
	}

	// Successful login.
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	got, err := service.Authenticate("testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown user must be indistinguishable.
	mockRepo.On("GetByUsername", "testuser").Return(user, nil).Once()
	_, errWrongPassword := service.Authenticate("testuser", "wrongpassword")
	assert.ErrorIs(t, errWrongPassword, services.ErrInvalidCredentials)

	mockRepo.On("GetByUsername", "nobody").Return(nil, notFoundErr()).Once()
	_, errUnknownUser := service.Authenticate("nobody", "password123")
	assert.ErrorIs(t, errUnknownUser, services.ErrInvalidCredentials)

	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_ToggleAdmin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewIdentityService(mockRepo)

	// An admin can never demote or promote themselves.
	_, err := service.ToggleAdmin(1, 1)
	assert.ErrorIs(t, err, services.ErrSelfToggle)
	mockRepo.AssertNotCalled(t, "SetAdmin", mock.Anything, mock.Anything)

	// Unknown target.
	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr()).Once()
	_, err = service.ToggleAdmin(1, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)

	// Promote a regular user.
	mockRepo.On("GetByID", uint(2)).Return(&models.User{ID: 2, Username: "bob"}, nil).Once()
	mockRepo.On("SetAdmin", uint(2), true).Return(nil).Once()
	target, err := service.ToggleAdmin(1, 2)
	assert.NoError(t, err)
	assert.True(t, target.IsAdmin)
	mockRepo.AssertExpectations(t)

	// Demote an admin.
	mockRepo.On("GetByID", uint(3)).Return(&models.User{ID: 3, Username: "carol", IsAdmin: true}, nil).Once()
	mockRepo.On("SetAdmin", uint(3), false).Return(nil).Once()
	target, err = service.ToggleAdmin(1, 3)
	assert.NoError(t, err)
	assert.False(t, target.IsAdmin)
	mockRepo.AssertExpectations(t)
}
