package middleware_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Actor), args.Error(1)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		actor, err := middleware.GetActorFromContext(c)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "role": actor.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuthMiddleware(t *testing.T) {
	provider := models.Actor{UserID: 7, Role: models.RoleProvider, Username: "fixer"}

	tests := []struct {
		name       string
		header     string
		setup      func(m *mockAuthenticator)
		wantStatus int
		wantKind   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantKind: "InvalidToken"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantKind: "InvalidToken"},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantKind: "InvalidToken"},
		{
			name:   "rejected token",
			header: "Bearer bad",
			setup: func(m *mockAuthenticator) {
				m.On("Authenticate", mock.Anything, "bad").Return(models.Actor{}, fmt.Errorf("%w: token has expired", services.ErrInvalidToken))
			},
			wantStatus: http.StatusUnauthorized,
			wantKind:   "InvalidToken",
		},
		{
			name:   "backend failure",
			header: "Bearer good",
			setup: func(m *mockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(models.Actor{}, fmt.Errorf("redis down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantKind:   "Internal",
		},
		{
			name:   "valid token",
			header: "bearer good",
			setup: func(m *mockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(provider, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := new(mockAuthenticator)
			if tt.setup != nil {
				tt.setup(authn)
			}
			r := setupRouter(middleware.JWTAuthMiddleware(authn, quietLogger()))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body["kind"])
				assert.NotEmpty(t, body["error"])
			} else {
				assert.EqualValues(t, 7, body["userId"])
				assert.Equal(t, "assembler", body["role"])
			}
			authn.AssertExpectations(t)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	authn := new(mockAuthenticator)
	authn.On("Authenticate", mock.Anything, "store-token").Return(models.Actor{UserID: 1, Role: models.RoleRequester}, nil)
	authn.On("Authenticate", mock.Anything, "assembler-token").Return(models.Actor{UserID: 2, Role: models.RoleProvider}, nil)

	r := setupRouter(middleware.JWTAuthMiddleware(authn, quietLogger()), middleware.RequireRoles(models.RoleProvider))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer store-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decode(t, rec)["kind"])

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer assembler-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles_WithoutAuth(t *testing.T) {
	r := setupRouter(middleware.RequireRoles(models.RoleProvider))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	r := setupRouter(middleware.RequestID())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Request-ID"), "req_"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Request-ID", "req_client")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req_client", rec.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2, quietLogger())
	r := setupRouter(rl.Handler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Buckets are per client.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoggerAndMetricsPassThrough(t *testing.T) {
	r := setupRouter(middleware.RequestID(), middleware.Logger(quietLogger()), middleware.Metrics())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["anonymous"])
}
