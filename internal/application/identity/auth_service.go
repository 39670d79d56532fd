package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/auth"
)

// ErrInvalidCredentials hides whether the login or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid login or password")

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Generate(input auth.GenerateTokenInput) (*auth.Token, error)
}

// AuthService handles sign-in
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByLogin(ctx, input.TenantID, input.Login)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("login", input.Login))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		s.logger.Warn("Login attempt for disabled account", zap.String("login", input.Login))
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}
	if !user.CheckPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("login", input.Login))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(auth.GenerateTokenInput{
		TenantID:     user.TenantID,
		UserID:       user.ID,
		Login:        user.Login,
		ThirdPartyID: user.ThirdPartyID,
		Language:     user.Language,
		Permissions:  user.Permissions,
	})
	if err != nil {
		return nil, err
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the token is valid already, a stale last login date is not worth failing for
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("external", user.IsExternal()))
	return &LoginResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// GetUser returns the profile of a signed-in user
func (s *AuthService) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}
