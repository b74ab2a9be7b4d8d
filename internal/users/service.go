package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/telemetry"
)

// TokenIssuer mints and refreshes bearer tokens.
type TokenIssuer interface {
	IssuePair(userID int64) (auth.TokenPair, error)
	Refresh(refreshToken string) (string, error)
}

type Service struct {
	Repo     Repo
	Tokens   TokenIssuer
	Hasher   PasswordHasher
	validate *validator.Validate
}

func NewService(repo Repo, tokens TokenIssuer, hasher PasswordHasher) *Service {
	return &Service{
		Repo:     repo,
		Tokens:   tokens,
		Hasher:   hasher,
		validate: newValidator(),
	}
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = newValidator()
	}
	return s.validate
}

// Signup validates the request, creates the user, writes the password hash
// in a separate password-only update, and issues a token pair.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (SignupResult, error) {
	if s == nil || s.Repo == nil || s.Tokens == nil {
		return SignupResult{}, errors.New("users service not configured")
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validator().Struct(&req); err != nil {
		return SignupResult{}, &ValidationError{Fields: fieldErrors(err, &req)}
	}
	if req.Password != req.PasswordConfirm {
		return SignupResult{}, fieldError("password", "Passwords do not match")
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return SignupResult{}, err
	}

	var created User
	err = s.Repo.WithTx(ctx, func(repo Repo) error {
		user, err := repo.Create(ctx, User{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  usernameFromEmail(req.Email),
		})
		if err != nil {
			return err
		}
		if err := repo.SetPasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return SignupResult{}, fieldError("email", "user with this email already exists.")
		}
		return SignupResult{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.Tokens.IssuePair(created.ID)
	if err != nil {
		return SignupResult{}, err
	}
	telemetry.Info("user.signup", map[string]any{"user_id": created.ID})
	return SignupResult{
		Profile: created.Profile(),
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}, nil
}

// Login checks credentials and returns a fresh token pair.
func (s *Service) Login(ctx context.Context, req TokenRequest) (auth.TokenPair, error) {
	if s == nil || s.Repo == nil || s.Tokens == nil {
		return auth.TokenPair{}, errors.New("users service not configured")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator().Struct(&req); err != nil {
		return auth.TokenPair{}, &ValidationError{Fields: fieldErrors(err, &req)}
	}
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}
	if !s.Hasher.Verify(req.Password, user.PasswordHash) {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	return s.Tokens.IssuePair(user.ID)
}

// Refresh trades a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (string, error) {
	if s == nil || s.Tokens == nil {
		return "", errors.New("users service not configured")
	}
	if err := s.validator().Struct(&req); err != nil {
		return "", &ValidationError{Fields: fieldErrors(err, &req)}
	}
	access, err := s.Tokens.Refresh(req.Refresh)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	return access, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if userID <= 0 {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
