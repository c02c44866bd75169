package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"loja/internal/models"
	"loja/internal/repositories"
	"loja/pkg/mailer"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, token issuing and password
// recovery. Password hashing happens here, explicitly, before any
// write; the storage layer never sees clear text.
type AuthService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	tokenDurat  time.Duration
	mail        mailer.Mailer
	frontendURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, mail mailer.Mailer, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour,
		mail:        mail,
		frontendURL: frontendURL,
	}
}

// RegisterUser registers a new account with a hashed password.
func (s *AuthService) RegisterUser(email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		IsAdmin:  false,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser authenticates by email and password and returns a signed
// token. Any failure maps to the same generic error.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	// Social-login-only accounts have no password to compare.
	if user.Password == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GenerateToken signs a JWT for the user. Also used after a successful
// social login.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"admin":   user.IsAdmin,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetUserByID loads the account behind a validated token.
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// RequestPasswordReset issues a reset token and emails the reset link.
// It never reveals whether the email exists: unknown addresses are a
// silent no-op.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expire := time.Now().Add(time.Hour)

	user.ResetPasswordToken = token
	user.ResetPasswordExpire = &expire
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	body := fmt.Sprintf(`
		<h1>Forgot your password?</h1>
		<p>We received a password reset request for your account.</p>
		<p>Click the link below to set a new password. This link expires in 1 hour:</p>
		<a href="%s" clicktracking=off>%s</a>
		<p>If you did not request this, please ignore this email.</p>
	`, resetURL, resetURL)

	if err := s.mail.Send(user.Email, "Password Reset", body); err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if user.ResetPasswordExpire == nil || user.ResetPasswordExpire.Before(time.Now()) {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
