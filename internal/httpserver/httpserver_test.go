package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/db/dbtest"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/middleware/ratelimit"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/search"
	"github.com/Skotchmaster/catalog/internal/seed"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/tokens"
	"github.com/Skotchmaster/catalog/internal/transport"
)

const (
	clientID     = "dscatalog"
	clientSecret = "dscatalog123"
	operator     = "alex@gmail.com"
	admin        = "maria@gmail.com"
	password     = "123456"
)

var jwtSecret = []byte("test-jwt-secret")

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, q string, from, size int) (int64, []search.ProductDocument, error) {
	return 1, []search.ProductDocument{{ID: 3, Name: "Macbook Pro"}}, nil
}

type testEnv struct {
	T *testing.T
	E *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := dbtest.Open(t)
	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, seed.Run(context.Background(), r, seed.DefaultOptions()))

	signer := &tokens.Signer{Secret: jwtSecret, ClientID: clientID, Scopes: []string{"read", "write"}, Validity: 24 * time.Hour}
	pub := events.Nop{}

	e := New(&Deps{
		Products:     &ProductHTTP{Svc: &service.ProductService{Repo: r, Events: pub}},
		Categories:   &CategoryHTTP{Svc: &service.CategoryService{Repo: r, Events: pub}},
		Users:        &UserHTTP{Svc: &service.UserService{Repo: r, Events: pub}},
		OAuth:        &OAuthHTTP{Svc: &service.AuthService{Repo: r, Signer: signer}, ClientID: clientID, ClientSecret: clientSecret},
		Search:       &SearchHTTP{Index: fakeSearch{}},
		DB:           gdb,
		Logger:       logging.NewWithWriter(io.Discard, "error"),
		JWTSecret:    jwtSecret,
		CORSOrigins:  []string{"*"},
		TokenLimiter: ratelimit.New(100, 100),
	})
	return &testEnv{T: t, E: e}
}

func (env *testEnv) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (env *testEnv) tokenRequest(id, secret string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.SetBasicAuth(id, secret)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(username string) string {
	env.T.Helper()
	rec := env.tokenRequest(clientID, clientSecret, url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var tr transport.TokenResponse
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &tr))
	return tr.AccessToken
}

func productBody(name string, categoryIDs ...int64) transport.ProductDTO {
	cats := make([]transport.CategoryDTO, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		cats = append(cats, transport.CategoryDTO{ID: id})
	}
	return transport.ProductDTO{
		Name:        name,
		Description: "Good phone",
		Price:       800,
		ImgURL:      "https://img.com/img.png",
		Date:        time.Date(2020, 7, 13, 20, 50, 7, 0, time.UTC),
		Categories:  cats,
	}
}

func TestToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.tokenRequest(clientID, clientSecret, url.Values{"grant_type": {"password"}, "username": {admin}, "password": {password}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))

	var tr transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, "bearer", tr.TokenType)
	assert.Equal(t, "read write", tr.Scope)
	assert.Equal(t, "Maria", tr.UserFirstName)
	assert.EqualValues(t, 2, tr.UserID)
	assert.EqualValues(t, 86400, tr.ExpiresIn)
	assert.NotEmpty(t, tr.JTI)

	tests := []struct {
		name   string
		id     string
		form   url.Values
		status int
		oauth  string
	}{
		{"wrong password", clientID, url.Values{"grant_type": {"password"}, "username": {admin}, "password": {"nope"}}, http.StatusBadRequest, "invalid_grant"},
		{"unknown user", clientID, url.Values{"grant_type": {"password"}, "username": {"ghost@gmail.com"}, "password": {password}}, http.StatusBadRequest, "invalid_grant"},
		{"wrong grant", clientID, url.Values{"grant_type": {"client_credentials"}}, http.StatusBadRequest, "unsupported_grant_type"},
		{"wrong client", "intruder", url.Values{"grant_type": {"password"}, "username": {admin}, "password": {password}}, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		rec := env.tokenRequest(tt.id, clientSecret, tt.form)
		assert.Equal(t, tt.status, rec.Code, tt.name)
		if tt.oauth != "" {
			var oe transport.OAuthError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &oe))
			assert.Equal(t, tt.oauth, oe.Error, tt.name)
		}
	}
}

func TestProducts_ListSortedByName(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec, body := env.do(http.MethodGet, "/products?page=0&size=12&sort=name,asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, body["totalElements"])
	assert.EqualValues(t, 1, body["totalPages"])
	assert.Equal(t, true, body["first"])
	assert.Equal(t, true, body["last"])

	content := body["content"].([]any)
	names := make([]string, 0, len(content))
	for _, c := range content {
		names = append(names, c.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"Macbook Pro", "PC Gamer", "PC Gamer Alfa", "Smart TV", "The Lord of the Rings"}, names)

	rec, body = env.do(http.MethodGet, "/products?categoryId=3&name=%20gamer%20", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["totalElements"])

	rec, body = env.do(http.MethodGet, "/products?size=2&page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["numberOfElements"])
	assert.EqualValues(t, 3, body["totalPages"])
	assert.Equal(t, false, body["first"])
	assert.Equal(t, false, body["last"])
}

func TestProducts_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(operator)

	rec, body := env.do(http.MethodGet, "/products/1000", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", body["error"])
	assert.Equal(t, "/products/1000", body["path"])
	assert.EqualValues(t, 404, body["status"])

	rec, _ = env.do(http.MethodPut, "/products/1000", token, productBody("Phone Updated", 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(http.MethodDelete, "/products/1000", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(http.MethodGet, "/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_InsertFetchUpdateDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec, _ := env.do(http.MethodPost, "/products", "", productBody("Phone Model X", 2))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.login(operator)
	rec, created := env.do(http.MethodPost, "/products", token, productBody("Phone Model X", 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/products/6", rec.Header().Get(echo.HeaderLocation))

	rec, fetched := env.do(http.MethodGet, "/products/6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, fetched)
	assert.Equal(t, "Phone Model X", fetched["name"])
	assert.Equal(t, "2020-07-13T20:50:07Z", fetched["date"])
	assert.Len(t, fetched["categories"], 1)

	rec, updated := env.do(http.MethodPut, "/products/6", token, productBody("Phone Model Y", 1, 3))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Phone Model Y", updated["name"])
	assert.Len(t, updated["categories"], 2)

	rec, _ = env.do(http.MethodDelete, "/products/6", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(http.MethodGet, "/products/6", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(operator)

	bad := productBody("TV")
	bad.Price = -5
	bad.Date = time.Now().Add(48 * time.Hour)

	rec, body := env.do(http.MethodPost, "/products", token, bad)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation exception", body["error"])

	fields := map[string]bool{}
	for _, e := range body["errors"].([]any) {
		fields[e.(map[string]any)["fieldName"].(string)] = true
	}
	assert.Equal(t, map[string]bool{"name": true, "price": true, "date": true}, fields)

	rec, _ = env.do(http.MethodPost, "/products", token, productBody("Phone Model X", 99))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.login(operator)

	rec, body := env.do(http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["totalElements"])

	rec, body = env.do(http.MethodDelete, "/categories/3", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Database exception", body["error"])
	assert.Equal(t, "Integrity violation", body["message"])

	rec, created := env.do(http.MethodPost, "/categories", token, transport.CategoryDTO{Name: "Games"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/categories/4", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Games", created["name"])

	rec, _ = env.do(http.MethodPut, "/categories/4", token, transport.CategoryDTO{Name: "Video Games"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(http.MethodDelete, "/categories/4", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(http.MethodDelete, "/categories/4", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(http.MethodPost, "/categories", token, transport.CategoryDTO{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	opToken := env.login(operator)
	adminToken := env.login(admin)

	rec, _ := env.do(http.MethodGet, "/users", opToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := env.do(http.MethodGet, "/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["totalElements"])
	assert.NotContains(t, rec.Body.String(), "password")

	dup := transport.UserInsertDTO{
		UserDTO:  transport.UserDTO{FirstName: "Bob", Email: admin, Roles: []transport.RoleDTO{{ID: 1}}},
		Password: password,
	}
	rec, body = env.do(http.MethodPost, "/users", adminToken, dup)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []any{map[string]any{"fieldName": "email", "message": "Email already exists"}}, body["errors"])

	dup.Email = "bob@gmail.com"
	rec, created := env.do(http.MethodPost, "/users", adminToken, dup)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/users/3", rec.Header().Get(echo.HeaderLocation))
	assert.NotContains(t, created, "password")

	own := transport.UserUpdateDTO{UserDTO: transport.UserDTO{FirstName: "Maria", LastName: "Silva", Email: admin, Roles: []transport.RoleDTO{{ID: 1}, {ID: 2}}}}
	rec, _ = env.do(http.MethodPut, "/users/2", adminToken, own)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = env.do(http.MethodPut, "/users/1", adminToken, own)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []any{map[string]any{"fieldName": "email", "message": "Email already exists for another user"}}, body["errors"])

	rec, _ = env.do(http.MethodDelete, "/users/3", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = env.do(http.MethodDelete, "/users/3", adminToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRolesAndOps(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec, _ := env.do(http.MethodGet, "/roles", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(http.MethodGet, "/roles", env.login(operator), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"authority":"ROLE_OPERATOR"},{"id":2,"authority":"ROLE_ADMIN"}]`, rec.Body.String())

	for _, p := range []string{"/health/live", "/health/ready", "/metrics"} {
		rec, _ = env.do(http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}

	rec, _ = env.do(http.MethodGet, "/products/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(http.MethodGet, "/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec, body := env.do(http.MethodGet, "/products/search?q=macbok", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalElements"])

	rec, _ = env.do(http.MethodGet, "/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
