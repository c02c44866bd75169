package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"loja/internal/models"
	"loja/internal/repositories"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ErrProviderDisabled is returned for providers without configured
// credentials.
var ErrProviderDisabled = errors.New("oauth provider not configured")

// OAuthProviderConfig carries one provider's client credentials.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig configures the available social-login providers.
// Providers without credentials are simply absent from the capability
// list; nothing is registered behind the scenes.
type OAuthConfig struct {
	Google      OAuthProviderConfig
	Facebook    OAuthProviderConfig
	CallbackURL string // base, e.g. https://api.example.com/api/auth
}

type oauthProvider struct {
	name        string
	conf        *oauth2.Config
	userInfoURL string
}

// OAuthService implements social login: provider discovery, the code
// exchange, and linking provider identities to store accounts.
type OAuthService struct {
	userRepo  repositories.UserRepository
	auth      *AuthService
	providers map[string]*oauthProvider
}

// NewOAuthService builds the provider list from configuration.
func NewOAuthService(userRepo repositories.UserRepository, auth *AuthService, cfg OAuthConfig) *OAuthService {
	s := &OAuthService{
		userRepo:  userRepo,
		auth:      auth,
		providers: make(map[string]*oauthProvider),
	}

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		s.providers["google"] = &oauthProvider{
			name: "google",
			conf: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  cfg.CallbackURL + "/google/callback",
				Scopes:       []string{"openid", "email"},
				Endpoint:     endpoints.Google,
			},
			userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		}
		log.Println("Google OAuth provider enabled")
	}
	if cfg.Facebook.ClientID != "" && cfg.Facebook.ClientSecret != "" {
		s.providers["facebook"] = &oauthProvider{
			name: "facebook",
			conf: &oauth2.Config{
				ClientID:     cfg.Facebook.ClientID,
				ClientSecret: cfg.Facebook.ClientSecret,
				RedirectURL:  cfg.CallbackURL + "/facebook/callback",
				Scopes:       []string{"email"},
				Endpoint:     endpoints.Facebook,
			},
			userInfoURL: "https://graph.facebook.com/me?fields=id,email",
		}
		log.Println("Facebook OAuth provider enabled")
	}

	return s
}

// Providers returns the names of the providers that are configured and
// usable. The frontend queries this instead of guessing.
func (s *OAuthService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

// Enabled reports whether one provider can be used.
func (s *OAuthService) Enabled(provider string) bool {
	_, ok := s.providers[provider]
	return ok
}

// AuthURL returns the provider consent page URL for the given state.
func (s *OAuthService) AuthURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrProviderDisabled
	}
	return p.conf.AuthCodeURL(state), nil
}

type oauthProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// HandleCallback exchanges the authorization code, fetches the profile,
// and resolves it to a store account: match by provider id first, then
// link by email, then create a fresh user. Returns a signed JWT.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code string) (string, *models.User, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", nil, ErrProviderDisabled
	}

	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%s code exchange failed: %w", provider, err)
	}

	profile, err := s.fetchProfile(ctx, p, token)
	if err != nil {
		return "", nil, err
	}
	if profile.Email == "" {
		// Facebook accounts may hide the email; fall back to a
		// provider-scoped address the way the original system did.
		if provider != "facebook" {
			return "", nil, fmt.Errorf("%s login failed: no email provided", provider)
		}
		profile.Email = fmt.Sprintf("facebook_%s@example.com", profile.ID)
	}

	user, err := s.resolveUser(provider, profile)
	if err != nil {
		return "", nil, err
	}

	jwtToken, err := s.auth.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return jwtToken, user, nil
}

func (s *OAuthService) fetchProfile(ctx context.Context, p *oauthProvider, token *oauth2.Token) (*oauthProfile, error) {
	resp, err := p.conf.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo fetch failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo read failed: %w", p.name, err)
	}
	var profile oauthProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%s userinfo decode failed: %w", p.name, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%s userinfo missing subject id", p.name)
	}
	return &profile, nil
}

func (s *OAuthService) resolveUser(provider string, profile *oauthProfile) (*models.User, error) {
	// Already linked.
	if user, err := s.userRepo.GetByProviderID(provider, profile.ID); err == nil {
		log.Printf("User logged in with %s: %s", provider, user.Email)
		return user, nil
	}

	// Same email: link the provider to the existing account.
	if user, err := s.userRepo.GetByEmail(profile.Email); err == nil {
		setProviderID(user, provider, profile.ID)
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to link %s account: %w", provider, err)
		}
		log.Printf("Linked %s account to existing user: %s", provider, user.Email)
		return user, nil
	}

	// First login: create the account.
	user := &models.User{Email: profile.Email, IsAdmin: false}
	setProviderID(user, provider, profile.ID)
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user for %s login: %w", provider, err)
	}
	log.Printf("New user created with %s: %s", provider, user.Email)
	return user, nil
}

func setProviderID(user *models.User, provider, id string) {
	switch provider {
	case "google":
		user.GoogleID = id
	case "facebook":
		user.FacebookID = id
	}
}
