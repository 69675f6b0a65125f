package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wxai-backend/internal/config"
	"github.com/ignatzorin/wxai-backend/internal/http/handlers"
	"github.com/ignatzorin/wxai-backend/internal/logger"
	"github.com/ignatzorin/wxai-backend/internal/mailer"
	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/otpstore"
	"github.com/ignatzorin/wxai-backend/internal/repository"
	"github.com/ignatzorin/wxai-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

// memUsers хранит пользователей, флаг пробного запроса и историю в памяти.
type memUsers struct {
	mu       sync.Mutex
	users    map[string]*models.User
	requests []models.AIRequest
	leads    []models.Lead
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrEmailTaken
	}
	u.ID = uuid.New()
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) byID(id uuid.UUID) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *memUsers) GetTrialUsed(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID(id)
	if u == nil {
		return false, repository.ErrUserNotFound
	}
	return u.TrialUsed, nil
}

func (m *memUsers) SetTrialUsed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byID(id); u != nil {
		u.TrialUsed = true
	}
	return nil
}

type memRequests struct {
	owner *memUsers
}

func (r memRequests) Create(_ context.Context, req *models.AIRequest) error {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	r.owner.requests = append(r.owner.requests, *req)
	return nil
}

func (r memRequests) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]models.AIRequest, error) {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	var out []models.AIRequest
	for _, req := range r.owner.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

type memLeads struct {
	owner *memUsers
}

func (l memLeads) Create(_ context.Context, lead *models.Lead) error {
	l.owner.mu.Lock()
	defer l.owner.mu.Unlock()
	lead.ID = uuid.New()
	l.owner.leads = append(l.owner.leads, *lead)
	return nil
}

type echoAI struct{}

func (echoAI) Complete(_ context.Context, input string) (string, error) {
	return "echo: " + input, nil
}

func (echoAI) GenerateImage(_ context.Context, _ string) (string, error) {
	return "https://cdn.example.com/img.png", nil
}

// inbox запоминает последнее отправленное письмо.
type inbox struct {
	mu   sync.Mutex
	last mailer.OTPMessage
}

func (i *inbox) SendOTP(_ context.Context, msg mailer.OTPMessage) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last = msg
	return nil
}

func (i *inbox) code() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last.Code
}

func newTestEngine(t *testing.T) (*gin.Engine, *memUsers, *inbox) {
	t.Helper()

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  100,
		RateLimitPeriod: time.Minute,
	}
	users := &memUsers{users: make(map[string]*models.User)}
	mail := &inbox{}
	tokens := service.NewTokenManager("router-test-secret-router-test-secret", time.Hour)

	otp := service.NewOTPService(users, otpstore.NewMemoryStore(), mail, tokens, service.OTPConfig{TTL: 5 * time.Minute})
	auth := service.NewAuthService(users, tokens)
	ai := service.NewAIService(users, memRequests{owner: users}, echoAI{}, nil, service.AIConfig{
		Timeout:       time.Second,
		TrialEnforced: true,
	})
	leads := service.NewLeadService(memLeads{owner: users})

	engine := SetupRouter(cfg, Handlers{
		Auth:   handlers.NewAuthHandler(otp, auth),
		AI:     handlers.NewAIHandler(ai),
		Sales:  handlers.NewSalesHandler(leads),
		Health: handlers.NewHealthHandler(nil),
	}, tokens)
	return engine, users, mail
}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_SignupWithOTPAndTrial(t *testing.T) {
	r, users, mail := newTestEngine(t)

	w := call(r, http.MethodPost, "/api/auth/send-otp", "", gin.H{
		"name": "Ann", "email": "Ann@X.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, mail.code(), 6)

	w = call(r, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"email": "ann@x.com", "otp": mail.code()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var auth struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	assert.Equal(t, "ann@x.com", auth.User.Email)
	assert.Len(t, users.users, 1)

	w = call(r, http.MethodPost, "/api/auth/verify-otp", "", gin.H{"email": "ann@x.com", "otp": mail.code()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/api/ai/chat", auth.Token, gin.H{"input": "привет"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"output":"echo: привет"}`, w.Body.String())

	w = call(r, http.MethodPost, "/api/ai/chat", auth.Token, gin.H{"input": "ещё раз"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "TRIAL_USED")

	w = call(r, http.MethodGet, "/api/user/requests", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"request_type":"text"`)

	w = call(r, http.MethodPost, "/api/sales/contact", auth.Token, gin.H{"message": "нужен тариф"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, users.leads, 1)
}

func TestRouter_AuthErrors(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := call(r, http.MethodPost, "/api/ai/chat", "", gin.H{"input": "привет"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/ai/chat", "not-a-jwt", gin.H{"input": "привет"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_PasswordSignupAndLogin(t *testing.T) {
	r, _, _ := newTestEngine(t)
	body := gin.H{"name": "Bob", "email": "bob@x.com", "password": "secret1"}

	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/auth/signup", "", body).Code)
	assert.Equal(t, http.StatusConflict, call(r, http.MethodPost, "/api/auth/signup", "", body).Code)

	w := call(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "bob@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "bob@x.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ServiceEndpoints(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := call(r, http.MethodGet, "/test", "", nil)
	assert.Equal(t, "Backend is working!", w.Body.String())

	w = call(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
