package handlers

import (
	"errors"
	"log"
	"strconv"

	"akun/internal/middleware"
	"akun/internal/repositories"
	"akun/internal/services"
	"akun/internal/token"
	"akun/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	router.Get("/identity", middleware.SessionToken(), h.HandleIdentity)
}

// HandleRegister handles new account registration and issues a session token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	tokenString, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account registered successfully",
		"token":   tokenString,
	})
}

// HandleLogin handles login by username or email and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	tokenString, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   tokenString,
	})
}

// HandleIdentity returns the caller's identity, or the identity of the
// account given by the optional id query parameter.
func (h *AuthHandler) HandleIdentity(c *fiber.Ctx) error {
	sessionToken := middleware.TokenFrom(c)
	if sessionToken == "" {
		return respondError(c, services.ErrNotAuthenticated)
	}

	var id *int64
	if raw := c.Query("id"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			var report validation.Report
			report.Append("id", "id must be an integer")
			return respondError(c, report.Err())
		}
		id = &n
	}

	identity, err := h.authService.GetIdentity(c.UserContext(), sessionToken, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(identity)
}

// respondError maps service errors onto HTTP responses.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.Is(err, services.ErrNotFound):
		errors.As(err, &verr)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"errors":  verr,
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr,
		})
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authenticated",
		})
	case errors.Is(err, token.ErrInvalidToken), errors.Is(err, token.ErrMalformedToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrDuplicateAccount):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   err.Error(),
		})
	default:
		log.Printf("Unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
