package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"askadoc-server/internal/domain/entity"
	"askadoc-server/pkg/jwt"
	"askadoc-server/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	RoleKey    contextKey = "role"
	TokenIDKey contextKey = "token_id"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.Verify(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidToken):
				response.Unauthorized(w, "Invalid or expired token")
			case errors.Is(err, ErrInvalidTokenType):
				response.Unauthorized(w, "Invalid token type")
			case errors.Is(err, ErrTokenRevoked):
				response.Unauthorized(w, "Token has been revoked")
			default:
				m.log.Warnf("Failed to validate token: %+v", err)
				response.InternalServerError(w, "Failed to validate token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Verify validates an access token and checks it is still in the Redis allowlist.
// The websocket endpoint uses it directly since browsers cannot set headers there.
func (m *AuthMiddleware) Verify(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Check if it's an access token
	if claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidTokenType
	}

	// Check if token exists in Redis (not revoked)
	exists, err := m.redisClient.Exists(ctx, jwt.AccessTokenKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// WithClaims stores the authenticated identity on the context
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, RoleKey, entity.Role(claims.Role))
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the role from context
func GetRoleFromContext(ctx context.Context) (entity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(entity.Role)
	return role, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
