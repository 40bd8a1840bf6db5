package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/transport"
	pkg_hash "github.com/padipos/padipos/pkg/hash"
	"github.com/padipos/padipos/pkg/logging"
	"github.com/padipos/padipos/pkg/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Repo      UserStore
	JWTSecret []byte
	TokenTTL  time.Duration
}

func (s *AuthService) ttl() time.Duration {
	if s.TokenTTL <= 0 {
		return time.Hour
	}
	return s.TokenTTL
}

func (s *AuthService) issue(u *models.User) (*transport.TokenResponse, error) {
	exp := time.Now().Add(s.ttl()).UTC()
	tok, err := tokens.NewAccessToken(u.ID.String(), u.Role, exp, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &transport.TokenResponse{Token: tok, ExpiresAt: exp, User: u}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email required", apperr.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email %q is not valid", apperr.ErrValidation, email)
	}
	return email, nil
}

func (s *AuthService) Register(ctx context.Context, in transport.RegisterRequest) (*transport.TokenResponse, error) {
	return s.register(ctx, in, models.RoleCashier)
}

func (s *AuthService) register(ctx context.Context, in transport.RegisterRequest, role string) (*transport.TokenResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", apperr.ErrValidation)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, minPasswordLen)
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in transport.LoginRequest) (*transport.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", apperr.ErrValidation)
	}

	u, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, in.Password) {
		return nil, apperr.ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *AuthService) Profile(ctx context.Context, req Requester) (*models.User, error) {
	return s.Repo.GetUser(ctx, req.UserID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, req Requester, in transport.UpdateProfileRequest) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		u.Email = email
	}
	if in.ProfileImage != nil {
		u.ProfileImage = strings.TrimSpace(*in.ProfileImage)
	}

	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, req Requester, in transport.ChangePasswordRequest) error {
	if len(in.NewPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, minPasswordLen)
	}

	u, err := s.Repo.GetUser(ctx, req.UserID)
	if err != nil {
		return err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, in.OldPassword) {
		return apperr.ErrInvalidCredentials
	}

	pwHash, err := pkg_hash.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = pwHash
	return s.Repo.SaveUser(ctx, u)
}

// EnsureAdmin creates an Admin account unless one exists already. It
// reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, in transport.RegisterRequest) (bool, error) {
	n, err := s.Repo.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.register(ctx, in, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// RequesterFromClaims turns verified token claims into a Requester.
func RequesterFromClaims(subject, role string) (Requester, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return Requester{}, fmt.Errorf("%w: bad subject", apperr.ErrInvalidCredentials)
	}
	return Requester{UserID: id, Role: role}, nil
}
