package usecase

import (
	"context"
	"errors"
	"time"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/domain/repository"
	"health-concierge/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// AuthUsecase issues and checks the bearer tokens that authorise status
// transitions.
type AuthUsecase interface {
	IssueToken(ctx context.Context, subjectID uuid.UUID, role entity.UserRole) (*dto.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
	RevokeAll(ctx context.Context, subjectID uuid.UUID) error
}

type authUsecase struct {
	log        *logrus.Logger
	jwtService *jwt.JWTService
	tokenStore repository.TokenStore
}

func NewAuthUsecase(log *logrus.Logger, jwtService *jwt.JWTService, tokenStore repository.TokenStore) AuthUsecase {
	return &authUsecase{
		log:        log,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func (u *authUsecase) IssueToken(ctx context.Context, subjectID uuid.UUID, role entity.UserRole) (*dto.TokenResponse, error) {
	token, tokenID, err := u.jwtService.GenerateAccessToken(subjectID, string(role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	expiry := u.jwtService.GetAccessExpiry()
	if err := u.tokenStore.Store(ctx, subjectID.String(), tokenID, expiry); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(expiry).UTC(),
	}, nil
}

func (u *authUsecase) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	ok, err := u.tokenStore.Exists(ctx, claims.SubjectID.String(), claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check token: %+v", err)
		return nil, err
	}
	if !ok {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (u *authUsecase) RevokeAll(ctx context.Context, subjectID uuid.UUID) error {
	if err := u.tokenStore.RevokeAll(ctx, subjectID.String()); err != nil {
		u.log.Warnf("Failed to revoke tokens for %s: %+v", subjectID, err)
		return err
	}
	return nil
}
