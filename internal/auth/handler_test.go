package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yene-farm/yene-farm/internal/shared"
)

type authFixture struct {
	repo    *memoryRepo
	service *Service
	router  http.Handler
}

func newAuthFixture(t *testing.T, opts ...TokenOption) *authFixture {
	t.Helper()
	repo := newMemoryRepo()
	service := NewService(repo, NewPasswordHasher(MinBcryptCost), newTestTokens(t, opts...))
	r := chi.NewRouter()
	r.Route("/api/auth", NewHandler(nil, service).MountRoutes)
	return &authFixture{repo: repo, service: service, router: r}
}

func (f *authFixture) post(t *testing.T, path string, body any, header string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func signupBody(email string) map[string]string {
	return map[string]string{
		"email":     email,
		"password":  "injera123",
		"firstName": "Tigist",
		"lastName":  "Haile",
		"userType":  "buyer",
	}
}

type sessionBody struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
	Error string   `json:"error"`
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestSignupLoginVerifyFlow(t *testing.T) {
	f := newAuthFixture(t)

	rr := f.post(t, "/api/auth/signup", signupBody("Tigist@Market.et"), "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeSession(t, rr)
	assert.Equal(t, "tigist@market.et", created.User.Email)
	assert.Equal(t, shared.RoleBuyer, created.User.UserType)
	assert.NotEmpty(t, created.Token)

	rr = f.post(t, "/api/auth/login", map[string]string{"email": "tigist@market.et", "password": "injera123"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	login := decodeSession(t, rr)
	assert.Equal(t, created.User.ID, login.User.ID)

	rr = f.post(t, "/api/auth/verify", map[string]string{"token": login.Token}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var verified struct {
		User shared.Principal `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &verified))
	assert.Equal(t, created.User.ID, verified.User.ID)
}

func TestSignupValidationAndDuplicates(t *testing.T) {
	f := newAuthFixture(t)

	bad := signupBody("not-an-email")
	rr := f.post(t, "/api/auth/signup", bad, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation_error", decodeSession(t, rr).Error)

	admin := signupBody("root@market.et")
	admin["userType"] = "admin"
	rr = f.post(t, "/api/auth/signup", admin, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.post(t, "/api/auth/signup", signupBody("dup@market.et"), "")
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = f.post(t, "/api/auth/signup", signupBody("DUP@market.et"), "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "email_already_registered", decodeSession(t, rr).Error)
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	rr := f.post(t, "/api/auth/signup", signupBody("kebede@market.et"), "")
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeSession(t, rr).User.ID

	rr = f.post(t, "/api/auth/login", map[string]string{"email": "kebede@market.et", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", decodeSession(t, rr).Error)

	rr = f.post(t, "/api/auth/login", map[string]string{"email": "nobody@market.et", "password": "injera123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", decodeSession(t, rr).Error)

	require.NoError(t, f.repo.Deactivate(t.Context(), id))
	rr = f.post(t, "/api/auth/login", map[string]string{"email": "kebede@market.et", "password": "wrong-pass"}, "")
	assert.Equal(t, "invalid_credentials", decodeSession(t, rr).Error)
	rr = f.post(t, "/api/auth/login", map[string]string{"email": "kebede@market.et", "password": "injera123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "account_deactivated", decodeSession(t, rr).Error)
}

func TestVerifyEndpointReasons(t *testing.T) {
	f := newAuthFixture(t)

	rr := f.post(t, "/api/auth/verify", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "token_required", decodeSession(t, rr).Error)

	rr = f.post(t, "/api/auth/verify", map[string]string{"token": "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, shared.ReasonInvalidToken, decodeSession(t, rr).Error)
}

func TestLogoutRevokesTokenWhenDenylistConfigured(t *testing.T) {
	mr := miniredis.RunT(t)
	f := newAuthFixture(t, WithDenylist(NewRedisDenylist(redis.NewClient(&redis.Options{Addr: mr.Addr()}))))

	rr := f.post(t, "/api/auth/signup", signupBody("selam@market.et"), "")
	require.Equal(t, http.StatusCreated, rr.Code)
	token := decodeSession(t, rr).Token

	rr = f.post(t, "/api/auth/logout", nil, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.post(t, "/api/auth/verify", map[string]string{"token": token}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, shared.ReasonInvalidToken, decodeSession(t, rr).Error)

	rr = f.post(t, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	session, err := f.service.Signup(t.Context(), SignupInput{
		Email: "dawit@market.et", Password: "old-secret", FirstName: "Dawit", LastName: "Tesfaye", UserType: shared.RoleFarmer,
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(t.Context(), session.User.ID, "not-it", "new-secret")
	assert.ErrorIs(t, err, ErrCurrentPasswordIncorrect)

	require.NoError(t, f.service.ChangePassword(t.Context(), session.User.ID, "old-secret", "new-secret"))

	_, err = f.service.Login(t.Context(), "dawit@market.et", "old-secret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = f.service.Login(t.Context(), "dawit@market.et", "new-secret")
	assert.NoError(t, err)
}

func TestSignupPasswordLimitCountsBytes(t *testing.T) {
	f := newAuthFixture(t)

	cases := map[string]struct {
		password string
		want     int
	}{
		"72 ascii bytes":    {strings.Repeat("a", 72), http.StatusCreated},
		"73 ascii bytes":    {strings.Repeat("a", 73), http.StatusBadRequest},
		"24 ethiopic runes": {strings.Repeat("ሀ", 24), http.StatusCreated},
		"24 runes plus one": {strings.Repeat("ሀ", 24) + "a", http.StatusBadRequest},
		"30 ethiopic runes": {strings.Repeat("ሀ", 30), http.StatusBadRequest},
	}
	i := 0
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			i++
			body := signupBody(fmt.Sprintf("limit%d@market.et", i))
			body["password"] = tc.password
			rr := f.post(t, "/api/auth/signup", body, "")
			require.Equal(t, tc.want, rr.Code, rr.Body.String())
			if tc.want == http.StatusBadRequest {
				assert.Equal(t, "validation_error", decodeSession(t, rr).Error)
				return
			}
			email := body["email"]
			rr = f.post(t, "/api/auth/login", map[string]string{"email": email, "password": tc.password}, "")
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestChangePasswordRejectsOversizedPassword(t *testing.T) {
	f := newAuthFixture(t)
	session, err := f.service.Signup(t.Context(), SignupInput{
		Email: "meron@market.et", Password: "old-secret", FirstName: "Meron", LastName: "Alemu", UserType: shared.RoleBuyer,
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(t.Context(), session.User.ID, "old-secret", strings.Repeat("ሀ", 25))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = f.service.Login(t.Context(), "meron@market.et", "old-secret")
	assert.NoError(t, err)
}
