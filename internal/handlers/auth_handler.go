package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"

	"loja/internal/middleware"
	"loja/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication: registration,
// login, password recovery and social login.
type AuthHandler struct {
	authService  *services.AuthService
	oauthService *services.OAuthService
	authRequired fiber.Handler
	frontendURL  string
	validate     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, oauthService *services.OAuthService, authRequired fiber.Handler, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		oauthService: oauthService,
		authRequired: authRequired,
		frontendURL:  frontendURL,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/profile", h.authRequired, h.HandleProfile)
	authRoutes.Post("/request-reset", h.HandleForgotPassword)
	authRoutes.Put("/reset-password/:token", h.HandleResetPassword)
	authRoutes.Get("/providers", h.HandleProviders)
	// Parameterized routes go last so they do not shadow the fixed ones.
	authRoutes.Get("/:provider/callback", h.HandleOAuthCallback)
	authRoutes.Get("/:provider", h.HandleOAuthRedirect)
}

// CredentialsRequest is the body shared by register and login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user, err := h.authService.RegisterUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user %s: %v", req.Email, err)
		if errors.Is(err, services.ErrEmailTaken) {
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

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate token",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleProfile returns the authenticated user's account including the
// linked sign-in providers.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"user":            user,
		"linkedProviders": user.LinkedProviders(),
	})
}

// ForgotPasswordRequest is the body of a password recovery call.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword sends the reset email. It answers the same way
// whether or not the account exists.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		log.Printf("Error requesting password reset for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Email could not be sent",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "If the email is registered, a reset link was sent",
	})
}

// ResetPasswordRequest carries the new password.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// HandleResetPassword consumes the emailed token and sets the new
// password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.authService.ResetPassword(c.Params("token"), req.Password); err != nil {
		log.Printf("Error resetting password: %v", err)
		if errors.Is(err, services.ErrInvalidResetToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid or expired reset token",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not reset password",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}

// HandleProviders lists the social-login providers that are actually
// configured, so the frontend only renders usable buttons.
func (h *AuthHandler) HandleProviders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"providers": h.oauthService.Providers(),
	})
}

// oauthStateCookie holds the anti-CSRF state between the consent
// redirect and the provider's callback.
const oauthStateCookie = "oauth_state"

func newOAuthState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HandleOAuthRedirect sends the browser to the provider's consent page.
// The random state is kept in a short-lived cookie and checked on
// callback.
func (h *AuthHandler) HandleOAuthRedirect(c *fiber.Ctx) error {
	provider := c.Params("provider")
	state, err := newOAuthState()
	if err != nil {
		log.Printf("Error generating OAuth state: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not start social login",
		})
	}
	authURL, err := h.oauthService.AuthURL(provider, state)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Login with %s is not available", provider),
		})
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		MaxAge:   600,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

// HandleOAuthCallback finishes the social login and hands the token to
// the frontend via redirect.
func (h *AuthHandler) HandleOAuthCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	code := c.Query("code")
	if code == "" {
		return c.Redirect(h.frontendURL+"/login?error=social_login_failed", fiber.StatusTemporaryRedirect)
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		log.Printf("Social login with %s rejected: state mismatch", provider)
		return c.Redirect(h.frontendURL+"/login?error=social_login_failed", fiber.StatusTemporaryRedirect)
	}
	c.ClearCookie(oauthStateCookie)

	token, user, err := h.oauthService.HandleCallback(c.Context(), provider, code)
	if err != nil {
		log.Printf("Social login with %s failed: %v", provider, err)
		if errors.Is(err, services.ErrProviderDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Login with %s is not available", provider),
			})
		}
		return c.Redirect(h.frontendURL+"/login?error=social_login_failed", fiber.StatusTemporaryRedirect)
	}

	log.Printf("Social login with %s completed for %s", provider, user.Email)
	return c.Redirect(
		fmt.Sprintf("%s/social-callback?token=%s", h.frontendURL, url.QueryEscape(token)),
		fiber.StatusTemporaryRedirect,
	)
}

// validationErrorResponse renders validator failures as a field map.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
