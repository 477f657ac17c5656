package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

const (
	// Echo context keys set on successful verification.
	ContextKeyIdentity = "identity"
	ContextKeyClaims   = "claims"
)

type TokenMiddleware struct {
	Tokens *tokens.Service
}

func New(ts *tokens.Service) *TokenMiddleware {
	return &TokenMiddleware{Tokens: ts}
}

// RequireAccess gates a route on a valid, unrevoked access token.
func (m *TokenMiddleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, false, false)
}

// RequireFresh additionally demands a token obtained by direct login.
func (m *TokenMiddleware) RequireFresh(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, false, true)
}

// RequireRefresh gates a route on a valid refresh token.
func (m *TokenMiddleware) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, true, false)
}

func (m *TokenMiddleware) require(next echo.HandlerFunc, requireRefresh, requireFresh bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)

		claims, err := m.Tokens.Verify(c.Request().Context(), raw, requireRefresh, requireFresh)
		if err != nil {
			return tokenErrorResponse(c, err)
		}

		c.Set(ContextKeyIdentity, claims.Subject)
		c.Set(ContextKeyClaims, claims)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// Fixed JSON bodies per failure mode, all 401. The message/error pairs mirror
// what clients of the previous API already match on.
func tokenErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tokens.ErrMissingToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"description": "Request does not contain an access token",
			"error":       "authorization_required",
		})
	case errors.Is(err, tokens.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"message": "The token has expired",
			"error":   "token_expired",
		})
	case errors.Is(err, tokens.ErrTokenRevoked):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"message": "The token has been revoked",
			"error":   "token_revoked",
		})
	case errors.Is(err, tokens.ErrWrongScope):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"message": "Wrong token type presented",
			"error":   "wrong_token_type",
		})
	case errors.Is(err, tokens.ErrFreshRequired):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"description": "The token is not fresh",
			"error":       "fresh_token_required",
		})
	case errors.Is(err, tokens.ErrInvalidSignature):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"message": "Signature verification failed",
			"error":   "invalid_token",
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "token verification failed")
	}
}

// Identity returns the verified subject set by the middleware.
func Identity(c echo.Context) (string, error) {
	v, ok := c.Get(ContextKeyIdentity).(string)
	if !ok || v == "" {
		return "", errors.New("no identity in context")
	}
	return v, nil
}

// Claims returns the full verified claims set by the middleware.
func Claims(c echo.Context) (*tokens.Claims, error) {
	v, ok := c.Get(ContextKeyClaims).(*tokens.Claims)
	if !ok || v == nil {
		return nil, errors.New("no claims in context")
	}
	return v, nil
}
