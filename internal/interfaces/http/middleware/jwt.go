package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/auth"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier validates a bearer token and returns its claims. Tokens are
// issued elsewhere; the register only checks them.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type JWTMiddlewareConfig struct {
	Verifier  TokenVerifier
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig leaves the health probes open
func DefaultJWTConfig(verifier TokenVerifier, log *zap.Logger) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Verifier:  verifier,
		SkipPaths: []string{"/health", "/api/v1/health"},
		Logger:    log,
	}
}

var errNoBearer = errors.New("no bearer token")

// JWTAuth requires a valid bearer token outside the skip paths. The subject
// claim becomes the request's user id for handlers and access logs.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	open := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		open[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := open[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader(AuthHeaderKey))
		if !ok {
			rejectToken(c, log, errNoBearer)
			return
		}
		claims, err := cfg.Verifier.Verify(token)
		if err != nil {
			rejectToken(c, log, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.Subject)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

// bearerToken extracts the credentials of an Authorization header. The
// scheme name is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, strings.TrimSpace(BearerPrefix)) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rejectToken(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))

	code, msg, challenge := dto.ErrCodeUnauthorized, "Authentication required", `Bearer realm="pos"`
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
		challenge += `, error="invalid_token", error_description="expired"`
	case !errors.Is(err, errNoBearer):
		challenge += `, error="invalid_token"`
	}

	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, msg, getRequestIDFromContext(c)))
}

// GetJWTClaims returns nil when the request was not authenticated
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
