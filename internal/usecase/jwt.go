// Implemented according to this guide https://dekh.medium.com/the-complete-guide-to-json-web-tokens-jwt-and-token-based-authentication-32501cb5125c
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenClaims struct {
	Type string `json:"typ"`
	Role string `json:"role,omitempty"`
	jwt.StandardClaims
}

type JWTAuth struct {
	authRepo            domain.AuthRepository
	secretKeyAccess     string
	secretKeyRefresh    string
	iss                 string
	refreshTokenExpTime time.Duration
	accessTokenExpTime  time.Duration
	now                 func() time.Time
}

func NewJWTAuth(
	authRepo domain.AuthRepository,
	secretKeyAccess string,
	secretKeyRefresh string,
	iss string,
	refreshTokenExpTime time.Duration,
	accessTokenExpTime time.Duration,
) *JWTAuth {
	return &JWTAuth{
		authRepo:            authRepo,
		secretKeyAccess:     secretKeyAccess,
		secretKeyRefresh:    secretKeyRefresh,
		iss:                 iss,
		refreshTokenExpTime: refreshTokenExpTime,
		accessTokenExpTime:  accessTokenExpTime,
		now:                 time.Now,
	}
}

func (j *JWTAuth) AccessTokenTTL() time.Duration  { return j.accessTokenExpTime }
func (j *JWTAuth) RefreshTokenTTL() time.Duration { return j.refreshTokenExpTime }

func (j *JWTAuth) parse(tokenString, secretKey, tokenType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't parse token: %v: %w", err, domain.ErrUnauthorized)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("expected %s token, got %q: %w", tokenType, claims.Type, domain.ErrUnauthorized)
	}
	if j.iss != "" && !claims.VerifyIssuer(j.iss, true) {
		return nil, fmt.Errorf("unexpected issuer %q: %w", claims.Issuer, domain.ErrUnauthorized)
	}
	if !claims.VerifyExpiresAt(j.now().Unix(), true) {
		return nil, fmt.Errorf("%s token time is over: %w", tokenType, domain.ErrUnauthorized)
	}
	return claims, nil
}

func subject(claims *tokenClaims) (int64, error) {
	if claims.Subject == "" {
		return 0, fmt.Errorf("`sub` claim is not present in token: %w", domain.ErrUnauthorized)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token has sub with invalid format: %w", domain.ErrUnauthorized)
	}
	return id, nil
}

func (j *JWTAuth) sign(claims tokenClaims, secretKey string) (string, error) {
	rawToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	token, err := rawToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("couldn't sign %s token: %w", claims.Type, err)
	}
	return token, nil
}

func (j *JWTAuth) GenerateAccess(user *domain.User) (string, error) {
	now := j.now()
	return j.sign(tokenClaims{
		Type: tokenTypeAccess,
		Role: string(user.Role),
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    j.iss,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.accessTokenExpTime).Unix(),
		},
	}, j.secretKeyAccess)
}

// GenerateRefresh signs a refresh token and stores it as the only valid one for the user.
func (j *JWTAuth) GenerateRefresh(ctx context.Context, userID int64) (string, error) {
	now := j.now()
	token, err := j.sign(tokenClaims{
		Type: tokenTypeRefresh,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    j.iss,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.refreshTokenExpTime).Unix(),
		},
	}, j.secretKeyRefresh)
	if err != nil {
		return "", err
	}
	if err := j.authRepo.UpdateRefreshToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to update refresh token: %w", err)
	}
	return token, nil
}

// Issue creates a fresh access/refresh pair for the user.
func (j *JWTAuth) Issue(ctx context.Context, user *domain.User) (*domain.Token, error) {
	refresh, err := j.GenerateRefresh(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	access, err := j.GenerateAccess(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &domain.Token{Access: access, Refresh: refresh}, nil
}

// ParseAccess validates an access token and returns the identity it carries.
func (j *JWTAuth) ParseAccess(access string) (*domain.Claims, error) {
	claims, err := j.parse(access, j.secretKeyAccess, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	id, err := subject(claims)
	if err != nil {
		return nil, err
	}
	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.Claims{UserID: id, Role: role}, nil
}

func (j *JWTAuth) IsAccessTokenValid(access string) (bool, error) {
	if _, err := j.ParseAccess(access); err != nil {
		return false, err
	}
	return true, nil
}

func (j *JWTAuth) refreshSubject(ctx context.Context, refresh string) (int64, error) {
	claims, err := j.parse(refresh, j.secretKeyRefresh, tokenTypeRefresh)
	if err != nil {
		return 0, err
	}
	userID, err := subject(claims)
	if err != nil {
		return 0, err
	}
	exist, err := j.authRepo.DoesUserIDExist(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("user isn't found: %w", err)
	}
	if !exist {
		return 0, fmt.Errorf("user %d is gone: %w", userID, domain.ErrUnauthorized)
	}
	current, err := j.authRepo.RefreshTokenMatches(ctx, userID, refresh)
	if err != nil {
		return 0, err
	}
	if !current {
		return 0, fmt.Errorf("refresh token was rotated or revoked: %w", domain.ErrUnauthorized)
	}
	return userID, nil
}

func (j *JWTAuth) IsRefreshTokenValid(ctx context.Context, refresh string) (bool, error) {
	if _, err := j.refreshSubject(ctx, refresh); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RefreshRefreshToken trades a current refresh token for a new pair; the old one stops working.
func (j *JWTAuth) RefreshRefreshToken(ctx context.Context, refreshToken string) (*domain.Token, error) {
	userID, err := j.refreshSubject(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate refresh token: %w", err)
	}
	user, err := j.authRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return j.Issue(ctx, user)
}

// Revoke forgets the stored refresh token so it can no longer be used.
func (j *JWTAuth) Revoke(ctx context.Context, userID int64) error {
	return j.authRepo.UpdateRefreshToken(ctx, userID, "")
}
