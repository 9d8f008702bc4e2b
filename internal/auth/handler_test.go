package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, repo *stubRepo) (*chi.Mux, *Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := newTestTokenService(t, 30*time.Minute)
	svc := NewService(repo, tokens, &stubActivity{}, logger)
	gate := NewGate(tokens, repo, &stubResolver{})
	mw := Middleware{Gate: gate, Logger: logger}

	r := chi.NewRouter()
	r.Route("/api/auth", NewHandler(logger, svc, mw).MountRoutes)
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, newStubRepo())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Asel","username":"asel","password":"s3cret-pass","email":"asel@example.com","mobile":"700123456"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "asel", body.Data.Username)
	assert.NotZero(t, body.Data.ID)

	// Hashed password and token columns never leave the server.
	assert.NotContains(t, rec.Body.String(), "hashed_password")
	assert.NotContains(t, rec.Body.String(), "access_token\":")
}

func TestRegisterEndpointRejectsInvalidPayload(t *testing.T) {
	router, _ := newTestRouter(t, newStubRepo())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"name":"Asel","username":"a","password":"short","email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":422`)
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	router, _ := newTestRouter(t, newStubRepo())

	payload := `{"name":"Asel","username":"asel","password":"s3cret-pass","email":"asel@example.com","mobile":"700123456"}`
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", payload, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":409`)
}

func TestLoginEndpoint(t *testing.T) {
	repo := newStubRepo()
	router, _ := newTestRouter(t, repo)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	repo.add(&User{Name: "Asel", Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"asel","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body.Data.TokenType)
	assert.NotEmpty(t, body.Data.AccessToken)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	repo := newStubRepo()
	router, _ := newTestRouter(t, repo)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"asel","password":"wrong"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":400`)
}

func TestLogoutEndpoint(t *testing.T) {
	repo := newStubRepo()
	router, svc := newTestRouter(t, repo)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	user := repo.add(&User{Username: "asel", Email: "asel@example.com", HashedPassword: hash})

	_, token, err := svc.Login(context.Background(), "asel", "s3cret-pass")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AccessToken)

	// The cleared token no longer authenticates.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/logout", "", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":300`)
}

func TestLogoutEndpointMalformedHeader(t *testing.T) {
	router, _ := newTestRouter(t, newStubRepo())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_code":401`)
}
