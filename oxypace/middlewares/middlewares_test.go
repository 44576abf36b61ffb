package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oxypace/oxypace/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(id.String() + ":" + Role(r.Context())))
	})
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.Config{JWTSecret: secret}
	h := AuthMiddleware(cfg)(echoIdentity())
	userID := uuid.New()

	valid := sign(t, jwt.MapClaims{"user_id": userID.String(), "role": "user", "exp": time.Now().Add(time.Hour).Unix()}, secret)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID.String()+":user", rr.Body.String())

	cases := map[string]string{
		"missing":     "",
		"wrong key":   "Bearer " + sign(t, jwt.MapClaims{"user_id": userID.String()}, "other"),
		"expired":     "Bearer " + sign(t, jwt.MapClaims{"user_id": userID.String(), "exp": time.Now().Add(-time.Hour).Unix()}, secret),
		"not a uuid":  "Bearer " + sign(t, jwt.MapClaims{"user_id": "42"}, secret),
		"bad scheme":  "Basic " + valid,
		"bad payload": "Bearer not.a.token",
	}
	for name, header := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, name)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String(), name)
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(config.Config{JWTSecret: secret})(echoIdentity())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "anonymous", rr.Body.String())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "anonymous", rr.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(echoIdentity())

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), Role: "user"}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = req.WithContext(WithIdentity(req.Context(), Identity{UserID: uuid.New(), Role: "admin"}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"), "other clients have their own bucket")

	assert.Equal(t, 2, rl.size())
	rl.Cleanup(-time.Second)
	assert.Equal(t, 0, rl.size())
}

func TestCORS(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://oxypace.com"}).Handler(echoIdentity())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://oxypace.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://oxypace.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
