package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"askadoc-server/config"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authTestEnv struct {
	mw     *AuthMiddleware
	jwt    *jwt.JWTService
	redis  *redis.Client
	server *miniredis.Miniredis
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "middleware-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	return &authTestEnv{
		mw:     NewAuthMiddleware(jwtService, client, log),
		jwt:    jwtService,
		redis:  client,
		server: mr,
	}
}

func (e *authTestEnv) issue(t *testing.T, userID uuid.UUID, role entity.Role) string {
	t.Helper()
	token, tokenID, err := e.jwt.GenerateAccessToken(userID, role.String())
	require.NoError(t, err)
	require.NoError(t, e.redis.Set(context.Background(), jwt.AccessTokenKey(userID, tokenID), "valid", time.Minute).Err())
	return token
}

func identityHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		role, _ := GetRoleFromContext(r.Context())
		w.Write([]byte(userID.String() + "|" + role.String()))
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	env := newAuthTestEnv(t)
	userID := uuid.New()
	token := env.issue(t, userID, entity.RolePatient)
	h := env.mw.Authenticate(identityHandler())

	rec := serve(h, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String()+"|patient", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer not-a-jwt").Code)
}

func TestAuthenticate_RejectsRevokedAndRefreshTokens(t *testing.T) {
	env := newAuthTestEnv(t)
	userID := uuid.New()
	h := env.mw.Authenticate(identityHandler())

	token, tokenID, err := env.jwt.GenerateAccessToken(userID, "doctor")
	require.NoError(t, err)
	rec := serve(h, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")

	require.NoError(t, env.redis.Set(context.Background(), jwt.AccessTokenKey(userID, tokenID), "valid", time.Minute).Err())
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+token).Code)

	refresh, _, err := env.jwt.GenerateRefreshToken(userID, "doctor")
	require.NoError(t, err)
	rec = serve(h, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token type")
}

func TestAuthenticate_RedisDown(t *testing.T) {
	env := newAuthTestEnv(t)
	token := env.issue(t, uuid.New(), entity.RolePatient)
	env.server.Close()

	rec := serve(env.mw.Authenticate(identityHandler()), "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	env := newAuthTestEnv(t)
	doctorToken := env.issue(t, uuid.New(), entity.RoleDoctor)
	patientToken := env.issue(t, uuid.New(), entity.RolePatient)

	h := env.mw.Authenticate(RequireDoctor(identityHandler()))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+doctorToken).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+patientToken).Code)

	rec := httptest.NewRecorder()
	RequirePatient(identityHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	h := NewCORSMiddleware("https://app.askadoc.example").Handle(identityHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/doctors", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.askadoc.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}
