package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"askadoc-server/config"
	"askadoc-server/internal/delivery/http/handler"
	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/domain/entity"
	"askadoc-server/internal/observability/metrics"
	"askadoc-server/pkg/jwt"
	"askadoc-server/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerEnv struct {
	router *mux.Router
	jwt    *jwt.JWTService
	redis  *redis.Client
}

// newRouterEnv mounts handlers without usecases; only requests rejected
// before reaching a usecase are sent through it.
func newRouterEnv(t *testing.T) *routerEnv {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "router-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
	v := validator.NewValidator()
	reg := prometheus.NewRegistry()

	router := NewRouter(RouterConfig{
		AuthHandler:           handler.NewAuthHandler(nil, v, jwtService),
		AvailabilityHandler:   handler.NewAvailabilityHandler(nil, v),
		AppointmentHandler:    handler.NewAppointmentHandler(nil, v),
		ChatbotHandler:        handler.NewChatbotHandler(nil, v),
		ChatHandler:           handler.NewChatHandler(nil, v),
		DoctorHandler:         handler.NewDoctorHandler(nil, v),
		MedicalHistoryHandler: handler.NewMedicalHistoryHandler(nil, v),
		AuditLogHandler:       handler.NewAuditLogHandler(nil),
		MetricsHandler:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AuthMiddleware:        middleware.NewAuthMiddleware(jwtService, client, log),
		CORSMiddleware:        middleware.NewCORSMiddleware("https://askadoc.test"),
		RequestLogger:         middleware.RequestLogger(log, metrics.NewHTTPMetrics(reg)),
	})

	return &routerEnv{router: router.Setup(), jwt: jwtService, redis: client}
}

func (e *routerEnv) token(t *testing.T, role entity.Role) string {
	t.Helper()
	userID := uuid.New()
	token, tokenID, err := e.jwt.GenerateAccessToken(userID, role.String())
	require.NoError(t, err)
	require.NoError(t, e.redis.Set(context.Background(), jwt.AccessTokenKey(userID, tokenID), "valid", time.Minute).Err())
	return token
}

func (e *routerEnv) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	env := newRouterEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		rec := env.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "https://askadoc.test", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}
}

func TestRouter_Metrics(t *testing.T) {
	env := newRouterEnv(t)

	env.do(http.MethodGet, "/api/health", "")
	rec := env.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `askadoc_http_requests_total{method="GET",route="/api/health",status="200"}`)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	env := newRouterEnv(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/appointments/me"},
		{http.MethodPost, "/api/appointments/book"},
		{http.MethodPost, "/api/appointments/doctors/me/availability"},
		{http.MethodPost, "/api/chatbot/message"},
		{http.MethodGet, "/api/chats"},
		{http.MethodPost, "/api/chats"},
		{http.MethodGet, "/api/users/me/activity"},
		{http.MethodGet, "/api/users/profile/medical-history"},
	}
	for _, p := range paths {
		rec := env.do(p.method, p.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestRouter_RoleRestrictions(t *testing.T) {
	env := newRouterEnv(t)
	doctor := env.token(t, entity.RoleDoctor)
	patient := env.token(t, entity.RolePatient)
	appointmentID := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"doctor cannot book", http.MethodPost, "/api/appointments/book", doctor},
		{"doctor cannot open chat", http.MethodPost, "/api/chats", doctor},
		{"doctor cannot review", http.MethodPost, "/api/users/doctors/" + uuid.NewString() + "/reviews", doctor},
		{"doctor has no own medical history", http.MethodGet, "/api/users/profile/medical-history", doctor},
		{"patient cannot add slots", http.MethodPost, "/api/appointments/doctors/me/availability", patient},
		{"patient cannot list slots", http.MethodGet, "/api/appointments/doctors/me/availability", patient},
		{"patient cannot complete", http.MethodPut, "/api/appointments/" + appointmentID + "/complete", patient},
		{"patient cannot read other histories", http.MethodGet, "/api/users/patients/" + uuid.NewString() + "/medical-history", patient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.token)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestRouter_PublicDirectoryValidatesID(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(http.MethodGet, "/api/users/doctors/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/users/doctors/not-a-uuid/availability", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(http.MethodOptions, "/api/appointments/book", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://askadoc.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
