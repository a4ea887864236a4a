// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/infrastructure/localstore"
	"github.com/your-org/ricecart/internal/pkg/api"
	"github.com/your-org/ricecart/internal/pkg/auth"
)

// ErrNotAuthenticated is returned when no usable token is stored locally.
// Callers surface it as the "please log in" notice.
var ErrNotAuthenticated = errors.New("not authenticated")

// Service handles login, signup and session lifecycle. Token issuance is
// the remote API's job; this service only stores and consumes the token.
type Service struct {
	api    *api.Client
	store  *localstore.Store
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new session service
func NewService(apiClient *api.Client, store *localstore.Store, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		api:    apiClient,
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// SignupRequest represents the signup form
type SignupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the storefront API, stores the returned
// token in the local slot and loads the profile
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("please enter both username and password")
	}

	var resp tokenResponse
	err := s.api.Post(ctx, "login", "", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login failed: no token in response")
	}

	return s.open(ctx, resp.Token)
}

// Signup registers a new account and opens a session with the returned token
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*Session, error) {
	var resp tokenResponse
	if err := s.api.Post(ctx, "signup", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("signup failed: no token in response")
	}

	return s.open(ctx, resp.Token)
}

// Resume rebuilds a session from the locally stored token. An absent or
// expired token yields ErrNotAuthenticated; the caller redirects the user
// to login.
func (s *Service) Resume(ctx context.Context) (*Session, error) {
	token, err := s.store.Get(ctx, localstore.TokenKey)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	if _, err := auth.ParseUnverified(token); err != nil {
		s.logger.WithError(err).Debug("stored token unusable, clearing it")
		if delErr := s.store.Del(ctx, localstore.TokenKey); delErr != nil {
			s.logger.WithError(delErr).Warn("failed to clear stored token")
		}
		return nil, ErrNotAuthenticated
	}

	sess, err := s.load(ctx, token)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return sess, nil
}

// Logout tells the API to end the session and clears the stored token.
// The token is cleared even when the remote call fails; a stale token is
// worse than a failed logout notification.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if err := s.api.Post(ctx, "logout", sess.Token, nil, nil); err != nil {
		s.logger.WithError(err).Warn("remote logout failed")
	}
	return s.store.Del(ctx, localstore.TokenKey)
}

// UpdateProfile updates the user's profile and returns the fresh profile
func (s *Service) UpdateProfile(ctx context.Context, sess *Session, req *UpdateProfileRequest) (*Profile, error) {
	if req.Username == "" && req.Email == "" && req.Password == "" {
		return nil, fmt.Errorf("nothing to update")
	}

	if err := s.api.Put(ctx, "user_profile", sess.Token, req, nil); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	var profile Profile
	if err := s.api.Get(ctx, "user_profile", sess.Token, &profile); err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	return &profile, nil
}

// open stores the token and loads the session
func (s *Service) open(ctx context.Context, token string) (*Session, error) {
	if err := s.store.Set(ctx, localstore.TokenKey, token, s.config.LocalStore.TokenTTL); err != nil {
		return nil, err
	}
	return s.load(ctx, token)
}

// load fetches the profile for a token
func (s *Service) load(ctx context.Context, token string) (*Session, error) {
	var profile Profile
	if err := s.api.Get(ctx, "user_profile", token, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	return &Session{Token: token, Profile: profile}, nil
}
