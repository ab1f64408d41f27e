package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type AuthService struct {
	authRepository domain.AuthRepository
	jwtAuth        *JWTAuth
}

func NewAuthService(authRepository domain.AuthRepository, jwtAuth *JWTAuth) *AuthService {
	return &AuthService{authRepository: authRepository, jwtAuth: jwtAuth}
}

func (s AuthService) SignIn(ctx context.Context, login, password string) (*domain.Token, error) {
	user, err := s.authRepository.SignIn(ctx, strings.ToLower(strings.TrimSpace(login)), password)
	if err != nil {
		return nil, fmt.Errorf("signIn: %w", err)
	}
	return s.jwtAuth.Issue(ctx, user)
}

func (s AuthService) SignUp(ctx context.Context, credentials domain.AuthCredentials) (*domain.Token, error) {
	user, err := s.CreateUser(ctx, credentials, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.jwtAuth.Issue(ctx, user)
}

// CreateUser registers an account without signing it in.
func (s AuthService) CreateUser(ctx context.Context, credentials domain.AuthCredentials, role domain.Role) (*domain.User, error) {
	credentials, err := credentials.Normalize()
	if err != nil {
		return nil, err
	}
	isUsernameExist, err := s.authRepository.DoesUsernameExist(ctx, credentials.Username)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if isUsernameExist {
		return nil, fmt.Errorf("signup: username %q exists: %w", credentials.Username, domain.ErrConflict)
	}
	userID, err := s.authRepository.SignUp(ctx, credentials, role)
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return s.authRepository.GetUser(ctx, userID)
}

func (s AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Token, error) {
	return s.jwtAuth.RefreshRefreshToken(ctx, refreshToken)
}

func (s AuthService) SignOut(ctx context.Context, userID int64) error {
	if err := s.jwtAuth.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

func (s AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.authRepository.GetUser(ctx, userID)
}

func (s AuthService) UserExists(ctx context.Context, userID int64) (bool, error) {
	return s.authRepository.DoesUserIDExist(ctx, userID)
}

func (s AuthService) DeleteUser(ctx context.Context, userID int64) error {
	err := s.authRepository.RemoveUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

// Promote grants the admin role; the change is visible in access tokens issued afterwards.
func (s AuthService) Promote(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.authRepository.GetUserByName(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if err := s.authRepository.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to promote %s: %w", username, err)
	}
	user.Role = domain.RoleAdmin
	return user, nil
}
