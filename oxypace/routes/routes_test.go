package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/realtime"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/sources/psql/psqltest"
	"oxypace/oxypace/sources/storage"
	"oxypace/oxypace/utils/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	m.objects[key] = data
	return err
}

func (m *memoryStore) Open(ctx context.Context, key string) (*storage.Object, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errs.NotFound("media not found")
	}
	return &storage.Object{
		ReadCloser:  io.NopCloser(bytes.NewReader(data)),
		ContentType: "image/png",
		Size:        int64(len(data)),
	}, nil
}

type testServer struct {
	t    *testing.T
	db   *gorm.DB
	cfg  config.Config
	auth *controllers.AuthController
	srv  *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLimitedServer(t, nil)
}

func newLimitedServer(t *testing.T, limiter *middlewares.RateLimiter) *testServer {
	t.Helper()
	db := psqltest.NewDB(t)
	cfg := config.Config{JWTSecret: "routes-secret", JWTTTL: time.Hour, CORSOrigins: []string{"*"}}
	hub := realtime.NewHub()

	users := dao.NewUserDAO(db)
	portals := dao.NewPortalDAO(db)
	posts := dao.NewPostDAO(db)
	comments := dao.NewCommentDAO(db)
	auth := controllers.NewAuthController(users, cfg)

	r := NewRouter(Handlers{
		Auth:     auth,
		Users:    controllers.NewUserController(users, posts),
		Portals:  controllers.NewPortalController(portals, posts),
		Posts:    controllers.NewPostController(posts, portals, users, hub),
		Comments: controllers.NewCommentController(comments, posts, users, hub),
		Messages: controllers.NewMessageController(dao.NewMessageDAO(db), users, hub),
		Contact:  controllers.NewContactController(dao.NewContactMessageDAO(db), users, nil),
		Media:    controllers.NewMediaController(&memoryStore{objects: map[string][]byte{}}),
		Health:   controllers.NewHealthController(nil),
		Hub:      hub,
		Limiter:  limiter,
	}, cfg)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{t: t, db: db, cfg: cfg, auth: auth, srv: srv}
}

// token creates a user and returns a bearer token for it.
func (s *testServer) token(username, role string) string {
	s.t.Helper()
	u := &models.User{Username: username, Email: username + "@oxypace.test", PasswordHash: "x", Role: role}
	require.NoError(s.t, dao.NewUserDAO(s.db).CreateUser(context.Background(), u))
	tok, err := s.auth.IssueToken(u)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) (*http.Response, map[string]any) {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, rdr)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func fieldErrors(body map[string]any) map[string]string {
	out := map[string]string{}
	list, _ := body["errors"].([]any)
	for _, item := range list {
		fe, _ := item.(map[string]any)
		field, _ := fe["field"].(string)
		msg, _ := fe["message"].(string)
		out[field] = msg
	}
	return out
}

func TestRegisterShortPasswordIsFieldError(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"username": "ada",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, "password must be at least 8 characters", fieldErrors(body)["password"])
}

func TestRegisterThenLogin(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"username": "ada",
		"password": "analytical",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "ada", user["username"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "email")

	resp, body = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"username": "ada2",
		"password": "analytical",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email is already registered", body["error"])

	resp, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "ada", "password": "analytical"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "ada", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPost, s.srv.URL+"/api/auth/login", strings.NewReader("{not json"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", body["error"])
}

func TestPostContentLimit(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("writer", models.RoleUser)

	resp, body := s.do(http.MethodPost, "/api/posts", tok, map[string]string{"content": strings.Repeat("a", 5001)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "content must be at most 5000 characters", fieldErrors(body)["content"])

	resp, body = s.do(http.MethodPost, "/api/posts", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldErrors(body), "content")

	resp, body = s.do(http.MethodPost, "/api/posts", tok, map[string]string{"content": strings.Repeat("a", 5000)})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
}

func TestPostsRequireAuthAndPaginate(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(http.MethodPost, "/api/posts", "", map[string]string{"content": "anon"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])

	tok := s.token("writer", models.RoleUser)
	for i := 0; i < 3; i++ {
		resp, _ := s.do(http.MethodPost, "/api/posts", tok, map[string]string{"content": "post"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, s.srv.URL+"/api/posts?limit=2", nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var posts []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&posts))
	assert.Len(t, posts, 2)
	author, _ := posts[0]["author"].(map[string]any)
	assert.Equal(t, "writer", author["username"])

	resp, body = s.do(http.MethodGet, "/api/posts?before=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "before must be an RFC3339 timestamp", body["error"])

	resp, body = s.do(http.MethodGet, "/api/posts/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = s.do(http.MethodGet, "/api/portals/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "portal not found", body["error"])
}

func TestContactValidationAndAdminGate(t *testing.T) {
	s := newTestServer(t)
	user := s.token("reporter", models.RoleUser)
	admin := s.token("root", models.RoleAdmin)

	resp, body := s.do(http.MethodPost, "/api/contact", user, map[string]string{"subject": "praise", "message": "you are all great"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "subject must be one of: general, bug, feature, account, abuse, other", fieldErrors(body)["subject"])

	resp, body = s.do(http.MethodPost, "/api/contact", user, map[string]string{"subject": "feature", "message": "dark mode please"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)

	resp, _ = s.do(http.MethodGet, "/api/contact", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.do(http.MethodPut, "/api/contact/"+id+"/status", admin, map[string]string{"status": "spam"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, fieldErrors(body), "status")

	resp, body = s.do(http.MethodPut, "/api/contact/"+id+"/status", admin, map[string]string{"status": "read"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "read", body["status"])
}

func upload(t *testing.T, s *testServer, token string, data []byte) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, s.srv.URL+"/api/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestMediaUploadAndProxy(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("photographer", models.RoleUser)
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

	resp, body := upload(t, s, tok, []byte("MZ\x90\x00 definitely not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = upload(t, s, tok, png)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	url, _ := body["url"].(string)
	require.True(t, strings.HasPrefix(url, "/api/media/"))

	res, err := http.Get(s.srv.URL + url)
	require.NoError(t, err)
	defer res.Body.Close()
	got, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, png, got)
	assert.Equal(t, "public, max-age=31536000, immutable", res.Header.Get("Cache-Control"))

	missing, err := http.Get(s.srv.URL + "/api/media/missing.png")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	res, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(raw), "oxypace_http_requests_total")
}

func TestRealtimeRejectsMissingToken(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(http.MethodGet, "/api/realtime", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimitBucketsPerUser(t *testing.T) {
	s := newLimitedServer(t, middlewares.NewRateLimiter(1, 2))
	alice := s.token("alice", "")
	bob := s.token("bob", "")

	for i := 0; i < 2; i++ {
		resp, _ := s.do(http.MethodGet, "/api/users/me", alice, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := s.do(http.MethodGet, "/api/users/me", alice, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// same remote address, different account
	resp, _ = s.do(http.MethodGet, "/api/users/me", bob, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBlankContentRejected(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("blanky", "")

	resp, body := s.do(http.MethodPost, "/api/posts", tok, map[string]string{"content": "    "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "content is required when media_url is empty", fieldErrors(body)["content"])

	resp, _ = s.do(http.MethodPost, "/api/posts", tok, map[string]string{
		"content":   "  ",
		"media_url": "https://example.com/cat.png",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, post := s.do(http.MethodPost, "/api/posts", tok, map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := post["id"].(string)

	resp, body = s.do(http.MethodPost, "/api/posts/"+id+"/comments", tok, map[string]string{"content": "\t\n "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "content is required", fieldErrors(body)["content"])

	resp, _ = s.do(http.MethodPut, "/api/posts/"+id, tok, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
