package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/telegram"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// MessageGateway is the outbound side of the chat handshake: prompt for a
// contact, deliver a verification code. Implemented by telegram.Client.
type MessageGateway interface {
	SendContactRequest(chatID int64) error
	SendMessage(chatID int64, text string) error
}

// authCodeKeyPrefix namespaces verification codes inside the code store.
const authCodeKeyPrefix = "auth_code_"

// codeLength is the number of decimal digits in a verification code.
const codeLength = 6

// AuthService handles business logic for authentication: the chat-bot
// verification handshake, code redemption, and password signup/login.
type AuthService struct {
	userRepo     repositories.UserRepository
	codes        repositories.CodeStore
	gateway      MessageGateway
	jwtSecret    []byte
	accessDurat  time.Duration // Duration for which the access token is valid
	refreshDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, codes repositories.CodeStore, gateway MessageGateway, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		codes:        codes,
		gateway:      gateway,
		jwtSecret:    []byte(jwtSecret),
		accessDurat:  24 * time.Hour,
		refreshDurat: 7 * 24 * time.Hour,
	}
}

// HandleUpdate processes one inbound webhook update. Gateway failures are
// logged and swallowed: the webhook caller always gets an acknowledgement,
// so nothing here may block or fail the response.
func (s *AuthService) HandleUpdate(ctx context.Context, update *telegram.Update) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message

	switch {
	case msg.Text == "/start":
		if err := s.gateway.SendContactRequest(msg.Chat.ID); err != nil {
			log.Printf("Failed to send contact request to chat %d: %v", msg.Chat.ID, err)
		}
	case msg.Contact != nil:
		s.issueCode(ctx, msg.Chat.ID, msg.Contact)
	}
}

// issueCode stores a fresh verification code for the shared contact and
// sends it back to the chat.
func (s *AuthService) issueCode(ctx context.Context, chatID int64, contact *telegram.Contact) {
	phoneNumber := contact.PhoneNumber
	if !strings.HasPrefix(phoneNumber, "+") {
		phoneNumber = "+" + phoneNumber
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		log.Printf("Failed to generate verification code: %v", err)
		return
	}

	pending := models.PendingAuthCode{
		PhoneNumber: phoneNumber,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
	}
	data, err := json.Marshal(pending)
	if err != nil {
		log.Printf("Failed to marshal pending auth code: %v", err)
		return
	}

	if err := s.codes.Put(ctx, authCodeKeyPrefix+code, data, models.AuthCodeTTL); err != nil {
		log.Printf("Failed to store verification code: %v", err)
		return
	}

	if err := s.gateway.SendMessage(chatID, "Your verification code is: "+code); err != nil {
		log.Printf("Failed to send verification code to chat %d: %v", chatID, err)
	}
}

// generateCode draws 6 independently uniform decimal digits. If the drawn
// code collides with a live pending code it is regenerated once; a second
// collision overwrites the older entry.
func (s *AuthService) generateCode(ctx context.Context) (string, error) {
	var code string
	for attempt := 0; attempt < 2; attempt++ {
		digits := make([]byte, codeLength)
		for i := range digits {
			n, err := rand.Int(rand.Reader, big.NewInt(10))
			if err != nil {
				return "", fmt.Errorf("failed to draw random digit: %w", err)
			}
			digits[i] = byte('0' + n.Int64())
		}
		code = string(digits)

		if _, err := s.codes.Get(ctx, authCodeKeyPrefix+code); err != nil {
			break // not live, safe to use
		}
	}
	return code, nil
}

// CodeLoginResult is the outcome of a successful code redemption.
type CodeLoginResult struct {
	Access       string `json:"access"`
	Refresh      string `json:"refresh"`
	PhoneNumber  string `json:"phone_number"`
	IsNewCreated bool   `json:"is_new_created"`
}

// LoginWithCode redeems a verification code for a session. The code is
// consumed atomically before any token is issued, so a second redemption
// of the same code always fails, even under concurrency.
func (s *AuthService) LoginWithCode(ctx context.Context, code string) (*CodeLoginResult, error) {
	data, err := s.codes.Take(ctx, authCodeKeyPrefix+code)
	if err != nil {
		if err == repositories.ErrCodeNotFound {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("failed to redeem code: %w", err)
	}

	var pending models.PendingAuthCode
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending auth code: %w", err)
	}

	user, created, err := s.getOrCreateUserByPhone(&pending)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &CodeLoginResult{
		Access:       access,
		Refresh:      refresh,
		PhoneNumber:  pending.PhoneNumber,
		IsNewCreated: created,
	}, nil
}

// getOrCreateUserByPhone looks a user up by phone number, creating one
// with the pending record's defaults when none exists.
func (s *AuthService) getOrCreateUserByPhone(pending *models.PendingAuthCode) (*models.User, bool, error) {
	if user, err := s.userRepo.GetByPhoneNumber(pending.PhoneNumber); err == nil && user != nil {
		return user, false, nil
	}

	user := &models.User{
		Username:    pending.PhoneNumber,
		PhoneNumber: pending.PhoneNumber,
		FirstName:   pending.FirstName,
		LastName:    pending.LastName,
		Role:        models.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, false, fmt.Errorf("failed to create user for phone %s: %w", pending.PhoneNumber, err)
	}
	return user, true, nil
}

// RegisterUser registers a new user, hashes their password, and saves them
// to the database.
func (s *AuthService) RegisterUser(user *models.User) error {
	// Check if username or phone number already exists
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s' already taken", user.Username)
	}
	if existingUser, err := s.userRepo.GetByPhoneNumber(user.PhoneNumber); err == nil && existingUser != nil {
		return fmt.Errorf("phone number '%s' already registered", user.PhoneNumber)
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by password and returns a token pair.
func (s *AuthService) LoginUser(username, password string) (access string, refresh string, err error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists
		return "", "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}

	return s.issueTokenPair(user)
}

// issueTokenPair signs a fresh access+refresh token pair for a user.
func (s *AuthService) issueTokenPair(user *models.User) (string, string, error) {
	now := time.Now()

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(s.accessDurat).Unix(),
		"iat":      now.Unix(),
	})
	access, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"typ":     "refresh",
		"exp":     now.Add(s.refreshDurat).Unix(),
		"iat":     now.Unix(),
	})
	refresh, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return access, refresh, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if
// valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// GetProfile returns the user behind an ID.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateAddress updates the only profile field a user may change.
func (s *AuthService) UpdateAddress(userID, address string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Address = address
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
