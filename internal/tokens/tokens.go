package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 30 * time.Minute
)

var (
	ErrMissingToken     = errors.New("missing token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongScope       = errors.New("wrong token scope")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrFreshRequired    = errors.New("fresh token required")
)

// Claims carried by both token kinds. Scope lives in the "type" claim so that
// an access token presented where a refresh token is required fails with
// ErrWrongScope instead of a signature error.
type Claims struct {
	TokenType string `json:"type"`
	Fresh     bool   `json:"fresh"`
	AppAdmin  bool   `json:"app_admin"`
	jwt.RegisteredClaims
}

// Blocklist is the revocation registry consulted on every verification.
type Blocklist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AdminClaimFunc derives the app_admin claim from the identity at issuance
// time. The claim is frozen into the token until it expires.
type AdminClaimFunc func(identity string) bool

type Service struct {
	Secret     []byte
	Blocklist  Blocklist
	AdminClaim AdminClaimFunc
}

func NewJTI() string { return uuid.NewString() }

func (s *Service) IssueAccessToken(identity string, fresh bool) (string, error) {
	return s.sign(identity, TypeAccess, fresh, AccessTokenTTL)
}

// Refresh tokens are never fresh.
func (s *Service) IssueRefreshToken(identity string) (string, error) {
	return s.sign(identity, TypeRefresh, false, RefreshTokenTTL)
}

func (s *Service) sign(identity, tokenType string, fresh bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	appAdmin := false
	if s.AdminClaim != nil {
		appAdmin = s.AdminClaim(identity)
	}

	claims := Claims{
		TokenType: tokenType,
		Fresh:     fresh,
		AppAdmin:  appAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Verify checks signature and expiry first, then scope, then freshness, and
// only then consults the revocation registry.
func (s *Service) Verify(ctx context.Context, raw string, requireRefresh, requireFresh bool) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}
	if !tkn.Valid {
		return nil, ErrInvalidSignature
	}

	wantType := TypeAccess
	if requireRefresh {
		wantType = TypeRefresh
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongScope
	}

	if requireFresh && !claims.Fresh {
		return nil, ErrFreshRequired
	}

	revoked, err := s.Blocklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return &claims, nil
}
