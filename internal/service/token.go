package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/repository"
)

// ErrUnauthorized is the single failure signal for every credential problem:
// bad signature, expired token, unknown user, or a refresh token that no
// longer matches the stored value. Callers never learn which one it was.
var ErrUnauthorized = apperr.Unauthorized("Unauthorized request")

// Identity is what a verified access token proves. The display fields are
// denormalized into the token at issue time so authenticated requests skip
// the user lookup.
type Identity struct {
	ID       uuid.UUID
	Username string
	Email    string
	FullName string
}

// AccessClaims are the stateless signed claims of an access token.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the subject id; validity additionally depends on
// equality with the single value stored on the user row.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues, verifies and rotates the token pair. Access and
// refresh tokens use independent secrets and expiries.
type TokenService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewTokenService(userRepo repository.UserRepository, cfg *config.Config) *TokenService {
	return &TokenService{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

// TokenPair holds one freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issue signs a new token pair for the user and overwrites the stored refresh
// token value. Last write wins: two concurrent issues for the same user leave
// exactly one of the refresh tokens usable.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := s.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	})
	accessToken, err := access.SignedString([]byte(s.cfg.AccessTokenSecret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenTTL)),
			ID:        uuid.New().String(),
		},
	})
	refreshToken, err := refresh.SignedString([]byte(s.cfg.RefreshTokenSecret))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess checks signature and expiry only. It never touches the store,
// so a revoked user keeps a working access token until natural expiry.
func (s *TokenService) VerifyAccess(tokenString string) (*Identity, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.AccessTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return &Identity{
		ID:       id,
		Username: claims.Username,
		Email:    claims.Email,
		FullName: claims.FullName,
	}, nil
}

// Rotate exchanges a presented refresh token for a fresh pair. The presented
// token must byte-equal the value currently stored on the user row; this
// equality test is the sole revocation mechanism, so a superseded or cleared
// token fails here even when its signature is still good.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*domain.User, *TokenPair, error) {
	var claims RefreshClaims
	token, err := jwt.ParseWithClaims(presented, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.RefreshTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrUnauthorized
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}

	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshToken)) != 1 {
		return nil, nil, ErrUnauthorized
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Revoke clears the stored refresh token, invalidating every outstanding
// refresh token for the user. Outstanding access tokens keep working until
// they expire.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}
