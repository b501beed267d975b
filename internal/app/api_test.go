package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yene-farm/yene-farm/internal/auth"
	"github.com/yene-farm/yene-farm/internal/categories"
	"github.com/yene-farm/yene-farm/internal/observability"
	"github.com/yene-farm/yene-farm/internal/orders"
	"github.com/yene-farm/yene-farm/internal/products"
	"github.com/yene-farm/yene-farm/internal/shared"
	"github.com/yene-farm/yene-farm/internal/users"
)

func TestMain(m *testing.M) {
	_ = os.Setenv(TestModeEnv, "1")
	RefreshTestMode()
	os.Exit(m.Run())
}

type userStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (s *userStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, shared.ErrNotFound
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == auth.NormalizeEmail(email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *userStore) Create(ctx context.Context, in auth.NewUser) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &auth.User{
		ID: uuid.NewString(), Email: in.Email, PasswordHash: in.PasswordHash, FirstName: in.FirstName,
		LastName: in.LastName, UserType: in.UserType, IsActive: true, CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	clone := *u
	return &clone, nil
}

func (s *userStore) UpdatePassword(ctx context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id].PasswordHash = hash
	return nil
}

func (s *userStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id].IsActive = false
	return nil
}

type noProfiles struct{}

func (noProfiles) GetProfile(ctx context.Context, id string) (users.Profile, error) {
	return users.Profile{}, shared.ErrNotFound
}

func (noProfiles) GetPublicProfile(ctx context.Context, id string) (users.PublicProfile, error) {
	return users.PublicProfile{}, shared.ErrNotFound
}

type productStore struct {
	products.Repository
	mu    sync.Mutex
	items map[string]products.Product
}

func (s *productStore) Create(ctx context.Context, sellerID string, in products.CreateInput) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := products.Product{ID: uuid.NewString(), Title: in.Title, Price: in.Price, SellerID: sellerID, Unit: in.Unit, IsAvailable: true}
	s.items[p.ID] = p
	return p, nil
}

func (s *productStore) SellerOf(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return "", shared.ErrNotFound
	}
	return p.SellerID, nil
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type categoryStore struct {
	categories.Repository
	created int
}

func (s *categoryStore) Create(ctx context.Context, in categories.Input) (categories.Category, error) {
	s.created++
	return categories.Category{ID: uuid.NewString(), Name: in.Name}, nil
}

type orderStore struct{ orders.Repository }

func testConfig() *Config {
	return &Config{
		AppEnv: "development", AppRequestTimeout: 5 * time.Second,
		JWTSecret: "api-test-secret", JWTTTL: time.Hour, AdminAPIKey: "ops-key", BcryptCost: auth.MinBcryptCost,
		RateLimitRequests: 100, RateLimitWindow: time.Minute,
		RateLimitAuthRequests: 5, RateLimitAuthWindow: 15 * time.Minute,
	}
}

type apiFixture struct {
	handler  http.Handler
	metrics  *observability.Metrics
	products *productStore
	cats     *categoryStore
}

func newAPIFixture(t *testing.T, ready ReadinessCheck) *apiFixture {
	t.Helper()
	f := &apiFixture{
		metrics:  observability.NewMetrics(),
		products: &productStore{items: map[string]products.Product{}},
		cats:     &categoryStore{},
	}
	handler, err := NewAPI(APIParams{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:  testConfig(),
		Metrics: f.metrics,
		Ready:   ready,
		Stores: Stores{
			Users:      &userStore{users: map[string]*auth.User{}},
			Profiles:   noProfiles{},
			Products:   f.products,
			Categories: f.cats,
			Orders:     orderStore{},
		},
	})
	require.NoError(t, err)
	f.handler = handler
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f *apiFixture) signup(t *testing.T, email, userType string) string {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret-pass", "firstName": "Almaz", "lastName": "Bekele", "userType": userType,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Token
}

func reasonOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestHealthz(t *testing.T) {
	rr := newAPIFixture(t, nil).do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	down := func(ctx context.Context) error { return errors.New("pool closed") }
	rr = newAPIFixture(t, down).do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rr := newAPIFixture(t, nil).do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestProductGuardsEndToEnd(t *testing.T) {
	f := newAPIFixture(t, nil)
	farmer := f.signup(t, "farmer@market.et", "farmer")
	buyer := f.signup(t, "buyer@market.et", "buyer")
	product := map[string]any{"title": "Teff", "price": 80, "categoryId": uuid.NewString()}

	rr := f.do(t, http.MethodPost, "/api/products", "", product)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, shared.ReasonMissingHeader, reasonOf(t, rr))

	rr = f.do(t, http.MethodPost, "/api/products", buyer, product)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, shared.ReasonInsufficientPermissions, reasonOf(t, rr))

	rr = f.do(t, http.MethodPost, "/api/products", farmer, product)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Product products.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = f.do(t, http.MethodDelete, "/api/products/"+created.Product.ID, buyer, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, shared.ReasonPermissionDenied, reasonOf(t, rr))

	rr = f.do(t, http.MethodDelete, "/api/products/"+created.Product.ID, farmer, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodDelete, "/api/products/"+created.Product.ID, farmer, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategoryAdminPaths(t *testing.T) {
	f := newAPIFixture(t, nil)
	buyer := f.signup(t, "buyer@market.et", "buyer")
	body := map[string]string{"name": "Coffee"}

	rr := f.do(t, http.MethodPost, "/api/categories", buyer, body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, shared.ReasonAdminAccessRequired, reasonOf(t, rr))

	rr = f.do(t, http.MethodPost, "/api/categories", "", body, "X-Admin-Key", "ops-key")
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/categories", "garbage-token", body, "X-Admin-Key", "ops-key")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 2, f.cats.created)
}

func TestAuthEndpointsAreThrottled(t *testing.T) {
	f := newAPIFixture(t, nil)
	creds := map[string]string{"email": "nobody@market.et", "password": "whatever"}

	for i := 0; i < 5; i++ {
		rr := f.do(t, http.MethodPost, "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}
	rr := f.do(t, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "too_many_auth_attempts", reasonOf(t, rr))

	rr = f.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthFailuresAreExported(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.do(t, http.MethodGet, "/api/users/profile", "not-a-jwt", nil)

	rr := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `yenefarm_auth_failures_total{reason="invalid_token"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	rr := newAPIFixture(t, nil).do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "route_not_found", reasonOf(t, rr))
}
