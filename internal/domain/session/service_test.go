package session_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/session"
	"github.com/your-org/ricecart/internal/infrastructure/localstore"
	"github.com/your-org/ricecart/internal/pkg/api"
)

// signToken mints a structurally valid bearer token. The signature is
// never checked client-side, so the signing key is irrelevant.
func signToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": 7,
		"email":   "tester@example.com",
		"exp":     expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type sessionFixture struct {
	service *session.Service
	store   *localstore.Store
	mux     *http.ServeMux
}

func setupSessions(t *testing.T) *sessionFixture {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestTimeout = 5 * time.Second
	cfg.LocalStore.TokenTTL = time.Hour

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := localstore.NewWithClient(client)

	return &sessionFixture{
		service: session.NewService(api.NewClient(cfg, logger), store, cfg, logger),
		store:   store,
		mux:     mux,
	}
}

func (f *sessionFixture) serveProfile(wantToken string) {
	f.mux.HandleFunc("GET /user_profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+wantToken {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 7, "username": "tester", "email": "tester@example.com",
		})
	})
}

func TestLogin_StoresTokenAndLoadsProfile(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	token := signToken(t, time.Now().Add(time.Hour))

	f.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "tester" || body["password"] != "secret" {
			http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	f.serveProfile(token)

	sess, err := f.service.Login(ctx, "tester", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, uint(7), sess.UserID())
	assert.Equal(t, "tester", sess.Profile.Username)

	stored, err := f.store.Get(ctx, localstore.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestLogin_MissingCredentials(t *testing.T) {
	f := setupSessions(t)

	_, err := f.service.Login(context.Background(), "", "secret")
	require.Error(t, err)

	// Nothing was stored.
	stored, storeErr := f.store.Get(context.Background(), localstore.TokenKey)
	require.NoError(t, storeErr)
	assert.Empty(t, stored)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := setupSessions(t)

	f.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
	})

	_, err := f.service.Login(context.Background(), "tester", "wrong")
	require.Error(t, err)
}

func TestSignup_OpensSession(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	token := signToken(t, time.Now().Add(time.Hour))

	f.mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		var req session.SignupRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "" || req.Email == "" || req.Password == "" {
			http.Error(w, `{"error":"Missing fields"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	f.serveProfile(token)

	sess, err := f.service.Signup(ctx, &session.SignupRequest{
		Username: "tester",
		Email:    "tester@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
}

func TestResume_NoStoredToken(t *testing.T) {
	f := setupSessions(t)

	_, err := f.service.Resume(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestResume_ExpiredTokenCleared(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	expired := signToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, f.store.Set(ctx, localstore.TokenKey, expired, 0))

	_, err := f.service.Resume(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	// The dead token was dropped so the next resume fails fast.
	stored, storeErr := f.store.Get(ctx, localstore.TokenKey)
	require.NoError(t, storeErr)
	assert.Empty(t, stored)
}

func TestResume_RejectedTokenIsNotAuthenticated(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	token := signToken(t, time.Now().Add(time.Hour))
	require.NoError(t, f.store.Set(ctx, localstore.TokenKey, token, 0))

	f.mux.HandleFunc("GET /user_profile", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
	})

	_, err := f.service.Resume(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestResume_ValidToken(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	token := signToken(t, time.Now().Add(time.Hour))
	require.NoError(t, f.store.Set(ctx, localstore.TokenKey, token, 0))
	f.serveProfile(token)

	sess, err := f.service.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tester", sess.Profile.Username)
}

func TestLogout_ClearsTokenEvenWhenRemoteFails(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()
	token := signToken(t, time.Now().Add(time.Hour))
	require.NoError(t, f.store.Set(ctx, localstore.TokenKey, token, 0))

	f.mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
	})

	err := f.service.Logout(ctx, &session.Session{Token: token})
	require.NoError(t, err)

	stored, storeErr := f.store.Get(ctx, localstore.TokenKey)
	require.NoError(t, storeErr)
	assert.Empty(t, stored)
}

func TestUpdateProfile_NothingToUpdate(t *testing.T) {
	f := setupSessions(t)

	_, err := f.service.UpdateProfile(context.Background(),
		&session.Session{Token: "tok"}, &session.UpdateProfileRequest{})
	require.Error(t, err)
}

func TestUpdateProfile_ReloadsProfile(t *testing.T) {
	f := setupSessions(t)
	ctx := context.Background()

	var gotUpdate map[string]string
	f.mux.HandleFunc("PUT /user_profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotUpdate)
		w.WriteHeader(http.StatusOK)
	})
	f.mux.HandleFunc("GET /user_profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 7, "username": "renamed", "email": "tester@example.com",
		})
	})

	profile, err := f.service.UpdateProfile(ctx,
		&session.Session{Token: "tok"}, &session.UpdateProfileRequest{Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", profile.Username)
	assert.Equal(t, "renamed", gotUpdate["username"])

	// omitempty keeps untouched fields off the wire.
	_, hasPassword := gotUpdate["password"]
	assert.False(t, hasPassword)
}
