package handlers

import (
	"fmt"
	"log"
	"strings"

	"pasar/internal/models"
	"pasar/internal/services"
	"pasar/pkg/telegram"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication: the chat-bot
// webhook, code redemption, and password signup/login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
// These routes are public.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhook", h.HandleWebhook)

	authRoutes := router.Group("/auth")
	authRoutes.Post("/login-with-code", h.HandleLoginWithCode)
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleWebhook processes an inbound update from the messaging provider.
// The provider expects an acknowledgement regardless of what happens
// downstream, so this always answers ok.
func (h *AuthHandler) HandleWebhook(c *fiber.Ctx) error {
	update, err := parseWebhookUpdate(c)
	if err != nil {
		log.Printf("Error parsing webhook update: %v", err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	h.authService.HandleUpdate(c.Context(), update)
	return c.JSON(fiber.Map{"status": "ok"})
}

// parseWebhookUpdate decodes the provider's update payload.
func parseWebhookUpdate(c *fiber.Ctx) (*telegram.Update, error) {
	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		return nil, err
	}
	return &update, nil
}

// LoginWithCodeRequest represents the request body for code redemption.
type LoginWithCodeRequest struct {
	Code string `json:"code" validate:"omitempty,max=6"`
}

// HandleLoginWithCode redeems a verification code for a token pair.
func (h *AuthHandler) HandleLoginWithCode(c *fiber.Ctx) error {
	var req LoginWithCodeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login-with-code request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired code",
		})
	}

	result, err := h.authService.LoginWithCode(c.Context(), req.Code)
	if err != nil {
		if err != services.ErrInvalidOrExpiredCode {
			log.Printf("Error redeeming code: %v", err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired code",
		})
	}

	return c.JSON(result)
}

// RegisterRequest represents the request body for signup.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=6"`
	Address     string `json:"address" validate:"omitempty,max=150"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	user := models.User{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Address:     req.Address,
		Role:        models.RoleCustomer,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		if strings.Contains(err.Error(), "already taken") || strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles password login and issues a token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	access, refresh, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"access":  access,
		"refresh": refresh,
	})
}
