package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rylimitless/electrolytes/internal/core/domain"
	"github.com/rylimitless/electrolytes/internal/infra/security"
	"github.com/rylimitless/electrolytes/internal/repository"
	"github.com/rylimitless/electrolytes/internal/transport/http/middleware"
	"github.com/rylimitless/electrolytes/internal/usecase"
)

type stubUserRepo struct {
	users map[string]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (s *stubUserRepo) Create(_ context.Context, user domain.User) error {
	if _, ok := s.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	s.users[user.Username] = user
	return nil
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := user
	return &found, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, username, passwordHash string, changedAt time.Time) error {
	user, ok := s.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = changedAt
	s.users[username] = user
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	user, ok := s.users[username]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	s.users[username] = user
	return nil
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *stubUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newStubUserRepo()
	tokens, err := security.NewTokenService("handler-test-secret-0123456789", "electrolytes", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	auth := usecase.NewAuthService(repo, tokens, nil)
	registration := usecase.NewRegistrationService(repo, nil)

	r := gin.New()
	handler := NewAuthHandler(auth, registration)
	handler.RegisterRoutes(r.Group("/auth"), middleware.RequireAuth(auth))

	reset := usecase.NewPasswordResetService(repo, nil, nil)
	NewPasswordHandler(reset).RegisterRoutes(r.Group("/auth"))

	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAlice(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := postJSON(t, r, "/auth/register", RegisterRequest{
		Username:         "alice",
		Email:            "alice@example.com",
		Password:         "Sup3r!SecurePass#7890",
		SecurityQuestion: string(domain.QuestionFirstPet),
		SecurityAnswer:   "rex",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthEndpoints_RegisterLoginMe(t *testing.T) {
	r, _ := newAuthTestRouter(t)
	registerAlice(t, r)

	w := postJSON(t, r, "/auth/login", LoginRequest{Username: "alice", Password: "Sup3r!SecurePass#7890"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	var login LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.TokenType != "Bearer" || login.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)

	if me.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", me.Code, me.Body.String())
	}
	var summary UserSummary
	if err := json.Unmarshal(me.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if summary.Username != "alice" {
		t.Fatalf("expected alice, got %s", summary.Username)
	}
}

func TestAuthEndpoints_RegisterWithoutEmail(t *testing.T) {
	r, repo := newAuthTestRouter(t)

	w := postJSON(t, r, "/auth/register", RegisterRequest{
		Username:         "bob",
		Email:            "",
		Password:         "Sup3r!SecurePass#7890",
		SecurityQuestion: string(domain.QuestionFirstPet),
		SecurityAnswer:   "rex",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register without email returned %d: %s", w.Code, w.Body.String())
	}
	if repo.users["bob"].Email != "" {
		t.Fatalf("expected empty email, got %q", repo.users["bob"].Email)
	}
}

func TestAuthEndpoints_DuplicateRegistrationConflicts(t *testing.T) {
	r, _ := newAuthTestRouter(t)
	registerAlice(t, r)

	w := postJSON(t, r, "/auth/register", RegisterRequest{
		Username:         "alice",
		Email:            "other@example.com",
		Password:         "Sup3r!SecurePass#7890",
		SecurityQuestion: string(domain.QuestionFirstPet),
		SecurityAnswer:   "rex",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", w.Code)
	}
}

func TestAuthEndpoints_LoginFailuresAreUniform(t *testing.T) {
	r, _ := newAuthTestRouter(t)
	registerAlice(t, r)

	unknown := postJSON(t, r, "/auth/login", LoginRequest{Username: "nobody", Password: "whatever123"}, nil)
	wrong := postJSON(t, r, "/auth/login", LoginRequest{Username: "alice", Password: "not-the-password"}, nil)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() == "" || unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("expected identical bodies, got %s and %s", unknown.Body.String(), wrong.Body.String())
	}
}

func TestAuthEndpoints_MeWithoutToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthEndpoints_MeWithTokenForDeletedAccount(t *testing.T) {
	r, repo := newAuthTestRouter(t)
	registerAlice(t, r)

	w := postJSON(t, r, "/auth/login", LoginRequest{Username: "alice", Password: "Sup3r!SecurePass#7890"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	delete(repo.users, "alice")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)

	if me.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a token whose account is gone, got %d", me.Code)
	}
}

func TestPasswordEndpoints_ResetFlow(t *testing.T) {
	r, repo := newAuthTestRouter(t)
	registerAlice(t, r)

	verify := postJSON(t, r, "/auth/verify-security-question", VerifyAnswerRequest{
		Username:       "alice",
		SecurityAnswer: "rex",
	}, nil)
	if verify.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", verify.Code, verify.Body.String())
	}

	badVerify := postJSON(t, r, "/auth/verify-security-question", VerifyAnswerRequest{
		Username:       "alice",
		SecurityAnswer: "fido",
	}, nil)
	if badVerify.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong answer, got %d", badVerify.Code)
	}

	reset := postJSON(t, r, "/auth/reset-password", ResetPasswordRequest{
		Username:       "alice",
		SecurityAnswer: "rex",
		NewPassword:    "Fresh!Credential#4321",
	}, nil)
	if reset.Code != http.StatusOK {
		t.Fatalf("reset returned %d: %s", reset.Code, reset.Body.String())
	}

	login := postJSON(t, r, "/auth/login", LoginRequest{Username: "alice", Password: "Fresh!Credential#4321"}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login with new password returned %d: %s", login.Code, login.Body.String())
	}

	if repo.users["alice"].LastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
}
