package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogapi/internal/blogservice"
	"github.com/sushihentaime/blogapi/internal/common"
	"github.com/sushihentaime/blogapi/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func testConfig() *Config {
	return &Config{
		Port:        ":0",
		Environment: "testing",
		Version:     "test",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTokens(t *testing.T) *userservice.TokenService {
	tokens, err := userservice.NewTokenService(userservice.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	return tokens
}

// newTestApplication wires the application against a fresh migrated database. No broker is
// configured, so signups publish no events.
func newTestApplication(t *testing.T) (*application, *sqlx.DB) {
	db := common.TestDB(t, "file://../../migrations")
	logger := testLogger()

	app := &application{
		config: testConfig(),
		logger: logger,
	}
	app.userService = userservice.NewUserService(db, testTokens(t), nil, logger)
	app.blogService = blogservice.NewBlogService(db, app.userService)

	return app, db
}

// newTestMiddlewareApplication is enough for middleware that never touches the database.
func newTestMiddlewareApplication(t *testing.T) *application {
	logger := testLogger()

	return &application{
		config:      testConfig(),
		logger:      logger,
		userService: userservice.NewUserService(nil, testTokens(t), nil, logger),
	}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatalf("could not decode %q: %v", responseBody, err)
	}

	return res.StatusCode, res.Header, envelope
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) put(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// signUp registers a user through the API and returns its token and id.
func (ts *testServer) signUp(t *testing.T, firstName, email string) (string, string) {
	code, _, body := ts.post(t, "/api/auth/signup", "", envelope{
		"first_name": firstName,
		"last_name":  "Tester",
		"email":      email,
		"password":   "TestPassword123!",
	})
	require.Equal(t, http.StatusCreated, code, body)

	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

// createBlog creates a draft through the API and returns its id.
func (ts *testServer) createBlog(t *testing.T, token, title string) string {
	code, _, body := ts.post(t, "/api/blogs", token, envelope{
		"title":       title,
		"description": "About " + title,
		"body":        "Words about " + title,
		"tags":        []string{"testing"},
	})
	require.Equal(t, http.StatusCreated, code, body)

	return body["data"].(map[string]any)["id"].(string)
}

func (ts *testServer) publishBlog(t *testing.T, token, id string) {
	code, _, body := ts.put(t, "/api/blogs/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, code, body)
}
