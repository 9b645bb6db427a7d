package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/telegram"

	"github.com/dgrijalva/jwt-go"
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

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhoneNumber(phoneNumber string) (*models.User, error) {
	args := m.Called(phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// fakeGateway records outbound messages instead of calling the provider.
type fakeGateway struct {
	contactRequests []int64
	messages        map[int64][]string
	failSends       bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{messages: make(map[int64][]string)}
}

func (g *fakeGateway) SendContactRequest(chatID int64) error {
	if g.failSends {
		return fmt.Errorf("gateway unavailable")
	}
	g.contactRequests = append(g.contactRequests, chatID)
	return nil
}

func (g *fakeGateway) SendMessage(chatID int64, text string) error {
	if g.failSends {
		return fmt.Errorf("gateway unavailable")
	}
	g.messages[chatID] = append(g.messages[chatID], text)
	return nil
}

// lastCode extracts the verification code from the last message sent to a
// chat.
func (g *fakeGateway) lastCode(t *testing.T, chatID int64) string {
	msgs := g.messages[chatID]
	if len(msgs) == 0 {
		t.Fatalf("no messages sent to chat %d", chatID)
	}
	code := strings.TrimPrefix(msgs[len(msgs)-1], "Your verification code is: ")
	assert.Len(t, code, 6)
	return code
}

func contactUpdate(chatID int64, phone, first, last string) *telegram.Update {
	return &telegram.Update{
		Message: &telegram.Message{
			Chat:    telegram.Chat{ID: chatID},
			Contact: &telegram.Contact{PhoneNumber: phone, FirstName: first, LastName: last},
		},
	}
}

func TestAuthService_HandleUpdate_Start(t *testing.T) {
	mockRepo := new(MockUserRepository)
	gateway := newFakeGateway()
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, gateway, "test_jwt_secret")

	update := &telegram.Update{
		Message: &telegram.Message{Chat: telegram.Chat{ID: 42}, Text: "/start"},
	}
	authService.HandleUpdate(context.Background(), update)

	assert.Equal(t, []int64{42}, gateway.contactRequests)
	assert.Empty(t, gateway.messages)
}

func TestAuthService_HandleUpdate_ContactIssuesCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	gateway := newFakeGateway()
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, gateway, "test_jwt_secret")

	authService.HandleUpdate(context.Background(), contactUpdate(42, "15551234567", "Jane", "Doe"))

	code := gateway.lastCode(t, 42)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be decimal digits, got %q", code)
	}

	// The pending record is retrievable under the code and carries the
	// normalized phone number.
	data, err := store.Get(context.Background(), "auth_code_"+code)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"+15551234567"`)
}

func TestAuthService_HandleUpdate_GatewayFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockUserRepository)
	gateway := newFakeGateway()
	gateway.failSends = true
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, gateway, "test_jwt_secret")

	// Must not panic or propagate anything; the webhook response does not
	// depend on the gateway.
	authService.HandleUpdate(context.Background(), &telegram.Update{
		Message: &telegram.Message{Chat: telegram.Chat{ID: 42}, Text: "/start"},
	})
	authService.HandleUpdate(context.Background(), contactUpdate(42, "15551234567", "Jane", "Doe"))
}

func TestAuthService_LoginWithCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	gateway := newFakeGateway()
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, gateway, "test_jwt_secret")
	ctx := context.Background()

	authService.HandleUpdate(ctx, contactUpdate(42, "15551234567", "Jane", "Doe"))
	code := gateway.lastCode(t, 42)

	// First redemption creates the user and issues a token pair
	mockRepo.On("GetByPhoneNumber", "+15551234567").Return(nil, fmt.Errorf("user with phone number +15551234567 not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		assert.Equal(t, "+15551234567", user.PhoneNumber)
		assert.Equal(t, "+15551234567", user.Username)
		assert.Equal(t, "Jane", user.FirstName)
		assert.Equal(t, "Doe", user.LastName)
		user.ID = "user-1"
	}).Return(nil).Once()

	result, err := authService.LoginWithCode(ctx, code)
	assert.NoError(t, err)
	assert.True(t, result.IsNewCreated)
	assert.Equal(t, "+15551234567", result.PhoneNumber)
	assert.NotEmpty(t, result.Access)
	assert.NotEmpty(t, result.Refresh)
	mockRepo.AssertExpectations(t)

	claims, err := authService.ValidateToken(result.Access)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "+15551234567", claims["username"])

	// Second redemption of the same code fails: the code was consumed
	// before any token was issued.
	_, err = authService.LoginWithCode(ctx, code)
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)
}

func TestAuthService_LoginWithCode_ExistingUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	gateway := newFakeGateway()
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, gateway, "test_jwt_secret")
	ctx := context.Background()

	authService.HandleUpdate(ctx, contactUpdate(7, "+15550000001", "Max", ""))
	code := gateway.lastCode(t, 7)

	existing := &models.User{ID: "user-7", Username: "+15550000001", PhoneNumber: "+15550000001"}
	mockRepo.On("GetByPhoneNumber", "+15550000001").Return(existing, nil).Once()

	result, err := authService.LoginWithCode(ctx, code)
	assert.NoError(t, err)
	assert.False(t, result.IsNewCreated)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginWithCode_UnknownCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, repositories.NewMemoryCodeStore(), newFakeGateway(), "test_jwt_secret")

	_, err := authService.LoginWithCode(context.Background(), "000000")
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)
}

func TestAuthService_LoginWithCode_ExpiredCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	store := repositories.NewMemoryCodeStore()
	authService := services.NewAuthService(mockRepo, store, newFakeGateway(), "test_jwt_secret")
	ctx := context.Background()

	// Plant a pending record that expires almost immediately
	err := store.Put(ctx, "auth_code_482913", []byte(`{"phone_number":"+15551234567"}`), 10*time.Millisecond)
	assert.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	_, err = authService.LoginWithCode(ctx, "482913")
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, repositories.NewMemoryCodeStore(), newFakeGateway(), "test_jwt_secret")

	user := &models.User{
		Username:    "testuser",
		PhoneNumber: "+15551112222",
		Password:    "password123",
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("GetByPhoneNumber", user.PhoneNumber).Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	// Password must have been replaced by its hash
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockRepo.AssertExpectations(t)

	// Phone number already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, fmt.Errorf("not found")).Once()
	mockRepo.On("GetByPhoneNumber", user.PhoneNumber).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phone number '+15551112222' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, repositories.NewMemoryCodeStore(), newFakeGateway(), testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:          "user-123",
		Username:    "testuser",
		PhoneNumber: "+15551112222",
		Role:        models.RoleCustomer,
		Password:    string(hashedPassword),
	}

	// Successful login returns a valid access token
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	access, refresh, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	parsedToken, err := jwt.Parse(access, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, models.RoleCustomer, claims["role"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Unknown user gets the same generic error
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser not found")).Once()
	_, _, err = authService.LoginUser("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, repositories.NewMemoryCodeStore(), newFakeGateway(), testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// Garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
