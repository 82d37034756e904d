package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/cardset"
	"github.com/redmonkez12/athena-api/internal/config"
	"github.com/redmonkez12/athena-api/internal/database/dbtest"
	"github.com/redmonkez12/athena-api/internal/httputil"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/search"
	"github.com/redmonkez12/athena-api/internal/social"
	"github.com/redmonkez12/athena-api/internal/user"
)

// outbox records the last token mailed per address.
type outbox struct {
	tokens map[string]string
}

func (o *outbox) SendConfirmationEmail(_ context.Context, toEmail, token string) error {
	o.tokens[toEmail] = token
	return nil
}

func (o *outbox) SendPasswordResetEmail(_ context.Context, toEmail, token string) error {
	o.tokens[toEmail] = token
	return nil
}

type testAPI struct {
	router http.Handler
	mail   *outbox
}

func newTestAPI(t *testing.T, env string) *testAPI {
	t.Helper()

	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{Server: config.ServerConfig{Env: env, TrustedOrigins: []string{"http://localhost:3000"}}}
	logger := logging.Discard()

	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	mail := &outbox{tokens: make(map[string]string)}
	users := user.NewRepository(db)
	authService := auth.NewService(
		users,
		auth.NewFlowTokenRepository(client, time.Hour, time.Hour),
		mail,
		auth.NewArgon2Hasher(64, 1),
		tokens,
		logger,
		time.Hour,
	)

	router := NewRouter(cfg, Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(users),
		CardSet: cardset.NewHandler(cardset.NewService(db)),
		Social:  social.NewHandler(social.NewService(db)),
		Search:  search.NewHandler(search.NewEngine(db)),
	}, auth.NewMiddleware(tokens), logger)

	return &testAPI{router: router, mail: mail}
}

func (a *testAPI) post(t *testing.T, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "BEARER "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signUp registers, confirms and logs in a user, returning the session token.
func (a *testAPI) signUp(t *testing.T, username string) string {
	t.Helper()

	email := username + "@example.com"
	rec := a.post(t, "/register", "", `{"Username":"`+username+`","Email":"`+email+`","Password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.post(t, "/confirmation", "", `{"TokenId":"`+a.mail.tokens[email]+`","Email":"`+email+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.post(t, "/login", "", `{"Login":"`+username+`","Password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t, "prod")

	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"api is running"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRouter_SwaggerOnlyInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestAPI(t, "prod").router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	newTestAPI(t, "dev").router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t, "prod")

	for _, path := range []string{"/addset", "/editset", "/deleteset", "/follow", "/unfollow", "/like", "/unlike", "/searchuserneedsdate"} {
		rec := api.post(t, path, "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Body.String(), httputil.CodeMissingAuth, path)
	}

	rec := api.post(t, "/addset", "garbage", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// public search still works without a token
	rec = api.post(t, "/searchsetglobaldate", "", `{"Search":""}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_EndToEnd(t *testing.T) {
	api := newTestAPI(t, "prod")
	ana := api.signUp(t, "ana")
	bob := api.signUp(t, "bob")

	rec := api.post(t, "/addset", ana, `{"Name":"Capitals","Cards":[{"Question":"FR","Answer":"Paris"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added cardset.AddSetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))

	rec = api.post(t, "/like", bob, `{"SetId":"`+added.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.post(t, "/infoset", "", `{"SetId":"`+added.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var set cardset.CardSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "Capitals", set.Name)
	assert.Len(t, set.LikedBy, 1)

	rec = api.post(t, "/searchuserneedsdate", bob, `{"Search":"cap"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var needs []cardset.CardSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &needs))
	require.Len(t, needs, 1)
	assert.Equal(t, added.ID, needs[0].ID)

	rec = api.post(t, "/search/sets", "", `{"Search":"CAP","Sort":"popularity"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), added.ID.String())

	rec = api.post(t, "/deleteset", bob, `{"_id":"`+added.ID.String()+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), httputil.CodeNotOwner)

	rec = api.post(t, "/deleteset", ana, `{"_id":"`+added.ID.String()+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.post(t, "/infoset", "", `{"SetId":"`+added.ID.String()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	api := newTestAPI(t, "prod")

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
