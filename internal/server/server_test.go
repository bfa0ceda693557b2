package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"cinelog/internal/app"
	"cinelog/pkg/auth"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

type testEnv struct {
	srv   *httptest.Server
	store *store.MemoryStore
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	a, err := app.New(st, tokens, nil, nil, slog.Default(), app.Config{})
	if err != nil {
		t.Fatal(err)
	}
	cfg.App = a
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func (e *testEnv) register(t *testing.T, username string) (domain.User, string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}
	sess := decode[app.Session](t, resp)
	return sess.User, sess.Token
}

func (e *testEnv) registerAdmin(t *testing.T, username string) (domain.User, string) {
	t.Helper()
	user, _ := e.register(t, username)
	user.Role = domain.RoleAdmin
	user, err := e.store.UpdateUser(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}
	// re-login so the token carries the admin role claim
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: status %d", resp.StatusCode)
	}
	sess := decode[app.Session](t, resp)
	return user, sess.Token
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t, Config{})
	resp := e.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAuthMiddleware(t *testing.T) {
	e := newTestEnv(t, Config{})
	_, token := e.register(t, "alice")

	// no token
	resp := e.do(t, http.MethodGet, "/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// garbage token
	resp = e.do(t, http.MethodGet, "/api/auth/me", "garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// valid token
	resp = e.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status = %d", resp.StatusCode)
	}
	me := decode[domain.User](t, resp)
	if me.Username != "alice" {
		t.Fatalf("me = %+v", me)
	}
}

func TestDeactivatedUserRejected(t *testing.T) {
	e := newTestEnv(t, Config{})
	user, token := e.register(t, "alice")

	user.IsActive = false
	if _, err := e.store.UpdateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	resp := e.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("deactivated: status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAdminGate(t *testing.T) {
	e := newTestEnv(t, Config{})
	_, userToken := e.register(t, "alice")
	_, adminToken := e.registerAdmin(t, "root")

	resp := e.do(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user on admin route: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin on admin route: status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReviewFlowStatusMapping(t *testing.T) {
	e := newTestEnv(t, Config{})
	_, aliceToken := e.register(t, "alice")
	_, adminToken := e.registerAdmin(t, "root")

	resp := e.do(t, http.MethodPost, "/api/movies", adminToken, map[string]any{"title": "Heat"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create movie: status = %d", resp.StatusCode)
	}
	movie := decode[domain.Movie](t, resp)
	moviePath := fmt.Sprintf("/api/movies/%d", movie.ID)

	// invalid rating -> 400
	resp = e.do(t, http.MethodPost, moviePath+"/reviews", aliceToken, map[string]any{"rating": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid rating: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// valid review -> 201
	resp = e.do(t, http.MethodPost, moviePath+"/reviews", aliceToken, map[string]any{"rating": 8, "review_text": "tense"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create review: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// duplicate review -> 409
	resp = e.do(t, http.MethodPost, moviePath+"/reviews", aliceToken, map[string]any{"rating": 5})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate review: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// unknown movie -> 404
	resp = e.do(t, http.MethodPost, "/api/movies/99999/reviews", aliceToken, map[string]any{"rating": 5})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown movie: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// aggregates visible on the public movie endpoint
	resp = e.do(t, http.MethodGet, moviePath, "", nil)
	got := decode[domain.Movie](t, resp)
	if got.RatingCount != 1 || got.AvgRating != 8 {
		t.Fatalf("aggregates = %d/%v", got.RatingCount, got.AvgRating)
	}
}

func TestPendingReviewVisibilityOverHTTP(t *testing.T) {
	e := newTestEnv(t, Config{})
	_, aliceToken := e.register(t, "alice")
	_, adminToken := e.registerAdmin(t, "root")

	resp := e.do(t, http.MethodPost, "/api/movies", adminToken, map[string]any{"title": "Heat"})
	movie := decode[domain.Movie](t, resp)
	moviePath := fmt.Sprintf("/api/movies/%d", movie.ID)

	resp = e.do(t, http.MethodPost, moviePath+"/reviews", aliceToken, map[string]any{"rating": 8})
	review := decode[domain.Review](t, resp)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/admin/reviews/%d/reject", review.ID), adminToken, map[string]string{"reason": "spam"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// guests see nothing
	resp = e.do(t, http.MethodGet, moviePath+"/reviews", "", nil)
	guestPage := decode[app.Page[domain.Review]](t, resp)
	if guestPage.Total != 0 {
		t.Fatalf("guest sees %d reviews", guestPage.Total)
	}

	// the author still sees their own pending review
	resp = e.do(t, http.MethodGet, moviePath+"/reviews", aliceToken, nil)
	ownPage := decode[app.Page[domain.Review]](t, resp)
	if ownPage.Total != 1 {
		t.Fatalf("author sees %d reviews, want 1", ownPage.Total)
	}
}

func TestRegisterRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	e := newTestEnv(t, Config{
		RedisAddr:                  mr.Addr(),
		RegisterRateLimitPerMinute: 2,
	})

	for i := 0; i < 2; i++ {
		resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": fmt.Sprintf("user%d", i),
			"email":    fmt.Sprintf("user%d@example.com", i),
			"password": "password1",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register %d: status = %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "user3",
		"email":    "user3@example.com",
		"password": "password1",
	})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("over limit: status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
	resp.Body.Close()
}

func TestMovieLikeOverHTTP(t *testing.T) {
	e := newTestEnv(t, Config{})
	_, aliceToken := e.register(t, "alice")
	_, adminToken := e.registerAdmin(t, "root")

	resp := e.do(t, http.MethodPost, "/api/movies", adminToken, map[string]any{"title": "Heat"})
	movie := decode[domain.Movie](t, resp)
	likePath := fmt.Sprintf("/api/movies/%d/like", movie.ID)

	// like twice, still one
	for i := 0; i < 2; i++ {
		resp = e.do(t, http.MethodPost, likePath, aliceToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("like %d: status = %d", i, resp.StatusCode)
		}
		got := decode[domain.Movie](t, resp)
		if got.LikesCount != 1 {
			t.Fatalf("likes_count = %d, want 1", got.LikesCount)
		}
	}
	// guests cannot like
	resp = e.do(t, http.MethodPost, likePath, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("guest like: status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}
