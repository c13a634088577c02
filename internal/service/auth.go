package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/sohail/jobtracker/internal/domain"
)

const defaultGitHubAPIURL = "https://api.github.com"

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Upsert(ctx context.Context, user domain.User) (*domain.User, error)
}

// AuthConfig holds OAuth and session configuration.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	JWTSecret    string
	TokenTTL     time.Duration

	// Overridable for tests; zero values select the real GitHub endpoints.
	Endpoint oauth2.Endpoint
	APIURL   string
}

// AuthService exchanges GitHub authorization codes for session tokens and
// validates those tokens on subsequent requests.
type AuthService struct {
	users     UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	oauth     *oauth2.Config
	apiURL    string
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, cfg AuthConfig) *AuthService {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = github.Endpoint
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultGitHubAPIURL
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 60 * time.Minute
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"user:email"},
			RedirectURL:  cfg.RedirectURL,
		},
		apiURL: apiURL,
		now:    time.Now,
	}
}

// AuthURL returns the GitHub OAuth authorization URL.
func (s *AuthService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Login exchanges a GitHub authorization code for a session token. It
// resolves the external profile, upserts the internal user, and only then
// mints a token bound to that user's id. Any provider failure aborts the
// login without touching the user table.
func (s *AuthService) Login(ctx context.Context, code string) (*domain.User, string, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: token exchange: %v", domain.ErrUpstreamAuth, err)
	}
	if token.AccessToken == "" {
		return nil, "", fmt.Errorf("%w: no access token received", domain.ErrUpstreamAuth)
	}

	profile, err := s.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Upsert(ctx, domain.User{
		GitHubID:  profile.ID,
		Username:  profile.Login,
		Email:     strPtr(profile.Email),
		AvatarURL: strPtr(profile.AvatarURL),
		Name:      strPtr(profile.Name),
	})
	if err != nil {
		return nil, "", fmt.Errorf("upsert user: %w", err)
	}

	sessionToken, err := s.mintToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

// ValidateToken verifies a session token's signature and expiry and returns
// the embedded user ID. It does not re-check that the user still exists.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "access" {
		return 0, domain.ErrUnauthorized
	}

	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	return int64(userIDFloat), nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) mintToken(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

type githubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
}

func (s *AuthService) fetchProfile(ctx context.Context, accessToken string) (*githubProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", domain.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github user endpoint returned status %d", domain.ErrUpstreamAuth, resp.StatusCode)
	}

	var profile githubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", domain.ErrUpstreamAuth, err)
	}

	// The public email is often unset; fall back to the primary verified
	// email. Missing email is not a login failure.
	if profile.Email == "" {
		if email, err := s.fetchPrimaryEmail(ctx, accessToken); err == nil {
			profile.Email = email
		}
	}

	return &profile, nil
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func (s *AuthService) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/user/emails", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github emails endpoint returned status %d", resp.StatusCode)
	}

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("decode emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("no email found for github user")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
