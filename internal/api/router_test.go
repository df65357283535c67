package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/classdesk/classdesk-be/internal/auth"
	"github.com/classdesk/classdesk-be/internal/config"
	"github.com/classdesk/classdesk-be/internal/database"
	"github.com/classdesk/classdesk-be/internal/services"
	"github.com/classdesk/classdesk-be/internal/session"
)

// stubAI answers every question the same way.
type stubAI struct{}

func (stubAI) Ask(_ context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", services.ErrValidation)
	}
	return "stub answer", nil
}

type testApp struct {
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		AppEnv:        "test",
		SessionSecret: "test-session-secret",
		JWTSecret:     "test-jwt-secret",
		SessionTTL:    time.Hour,
	}

	authLayer := auth.New(session.NewMemoryStore(), cfg)
	userService := services.NewUserService(db, bcrypt.MinCost)
	courseService := services.NewCourseService(db)
	uploadService := services.NewUploadService(db, t.TempDir())

	router := NewRouter(authLayer, userService, courseService, uploadService, stubAI{})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		// Keep redirects visible to the assertions
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{server: server, client: client}
}

func (a *testApp) registerForm(t *testing.T, username, email, password string) *http.Response {
	t.Helper()
	form := url.Values{
		"username":  {username},
		"full_name": {"Test " + username},
		"email":     {email},
		"phone":     {"555-0100"},
		"age":       {"20"},
		"password":  {password},
		"role":      {"student"},
	}
	resp, err := a.client.PostForm(a.server.URL+"/register", form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (a *testApp) loginJSON(t *testing.T, email, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := a.client.Post(a.server.URL+"/api/v1/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestRegisterLoginMeFlow(t *testing.T) {
	app := newTestApp(t)

	resp := app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", strings.Split(resp.Header.Get("Location"), "?")[0])

	resp = app.loginJSON(t, "ada@example.com", "secret-pw")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			FullName string `json:"fullName"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	assert.NotEmpty(t, loginBody.Token)
	assert.Equal(t, "ada", loginBody.User.Username)
	assert.Equal(t, "Test ada", loginBody.User.FullName)
	assert.Equal(t, "ada@example.com", loginBody.User.Email)
	assert.Equal(t, "student", loginBody.User.Role)

	// Session cookie grants access to /me with the same snapshot
	meResp, err := app.client.Get(app.server.URL + "/api/v1/me")
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]string
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "ada@example.com", me["email"])

	// The bearer token works without the cookie
	req, _ := http.NewRequest("GET", app.server.URL+"/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Token)
	bareResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	bareResp.Body.Close()
	assert.Equal(t, http.StatusOK, bareResp.StatusCode)
}

func TestRegisterDuplicateReRendersWithMessage(t *testing.T) {
	app := newTestApp(t)

	app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	resp := app.registerForm(t, "grace", "ada@example.com", "other-pw")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/register?message="), "got %q", loc)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	app := newTestApp(t)
	app.registerForm(t, "ada", "ada@example.com", "secret-pw")

	wrongPw := app.loginJSON(t, "ada@example.com", "wrongpw")
	defer wrongPw.Body.Close()
	noUser := app.loginJSON(t, "nosuch@example.com", "anything")
	defer noUser.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, wrongPw.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, noUser.StatusCode)

	b1, _ := io.ReadAll(wrongPw.Body)
	b2, _ := io.ReadAll(noUser.Body)
	assert.Equal(t, string(b1), string(b2))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/users", "/ask-ai"} {
		resp, err := app.client.Get(app.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	body, _ := json.Marshal(map[string]string{"question": "hi"})
	resp, err := app.client.Post(app.server.URL+"/api/v1/ask-ai", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAskAIEmptyQuestion(t *testing.T) {
	app := newTestApp(t)
	app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	app.loginJSON(t, "ada@example.com", "secret-pw").Body.Close()

	body, _ := json.Marshal(map[string]string{"question": "  "})
	resp, err := app.client.Post(app.server.URL+"/api/v1/ask-ai", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ = json.Marshal(map[string]string{"question": "what is a pointer?"})
	resp2, err := app.client.Post(app.server.URL+"/api/v1/ask-ai", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var answer map[string]string
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&answer))
	assert.Equal(t, "stub answer", answer["answer"])
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	app.loginJSON(t, "ada@example.com", "secret-pw").Body.Close()

	for i := 0; i < 2; i++ {
		resp, err := app.client.Get(app.server.URL + "/logout")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	resp, err := app.client.Get(app.server.URL + "/api/v1/me")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUploadEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	app.loginJSON(t, "ada@example.com", "secret-pw").Body.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "essay.txt")
	require.NoError(t, err)
	fw.Write([]byte("my essay"))
	require.NoError(t, w.Close())

	resp, err := app.client.Post(app.server.URL+"/api/v1/upload", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Message string `json:"message"`
		File    struct {
			OriginalName string `json:"originalName"`
			Size         int64  `json:"size"`
		} `json:"file"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "File uploaded", result.Message)
	assert.Equal(t, "essay.txt", result.File.OriginalName)
	assert.Equal(t, int64(len("my essay")), result.File.Size)
}

func TestLandingPageReflectsSession(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.client.Get(app.server.URL + "/")
	require.NoError(t, err)
	anon, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(anon), "Log in")

	app.registerForm(t, "ada", "ada@example.com", "secret-pw")
	app.loginJSON(t, "ada@example.com", "secret-pw").Body.Close()

	resp, err = app.client.Get(app.server.URL + "/")
	require.NoError(t, err)
	authed, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(authed), "Test ada")
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.client.Get(app.server.URL + "/no/such/route")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
