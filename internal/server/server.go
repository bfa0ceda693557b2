package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cinelog/internal/app"
	"cinelog/internal/ratelimit"
	"cinelog/internal/util"
	"cinelog/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                        *app.App
	RedisAddr                  string
	RedisPassword              string
	TrustedProxyCIDRs          []string
	RegisterRateLimitPerMinute int
	LoginRateLimitPerMinute    int
	MaxUploadBytes             int64
}

// Server exposes the HTTP API.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	maxUploadBytes  int64
	trustedProxies  *util.TrustedProxies
	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured. Rate limiting is only
// active when a Redis address is given; without one the endpoints stay open,
// which is what tests and local runs want.
func New(cfg Config) (*Server, error) {
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = 5 << 20
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxy CIDRs: %w", err)
	}
	s.trustedProxies = trusted
	if cfg.RedisAddr != "" {
		registerLimit := cfg.RegisterRateLimitPerMinute
		if registerLimit <= 0 {
			registerLimit = 5
		}
		loginLimit := cfg.LoginRateLimitPerMinute
		if loginLimit <= 0 {
			loginLimit = 10
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
			limiter, err := ratelimit.New(client, "cinelog:ratelimit:"+name, limit, time.Minute)
			if err != nil {
				return nil, fmt.Errorf("init %s limiter: %w", name, err)
			}
			return limiter, nil
		}
		if s.registerLimiter, err = newLimiter("register", registerLimit); err != nil {
			return nil, err
		}
		if s.loginLimiter, err = newLimiter("login", loginLimit); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("redis not configured, auth rate limiting disabled")
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with the ambient middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// identity
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.Handle("GET /api/auth/me", s.authenticated(s.handleMe))
	s.mux.Handle("PATCH /api/auth/me", s.authenticated(s.handleUpdateProfile))
	s.mux.Handle("POST /api/auth/me/password", s.authenticated(s.handleChangePassword))
	s.mux.Handle("POST /api/users/me/avatar", s.authenticated(s.handleUploadAvatar))

	// catalog
	s.mux.HandleFunc("GET /api/movies", s.handleListMovies)
	s.mux.HandleFunc("GET /api/movies/popular", s.handlePopularMovies)
	s.mux.HandleFunc("GET /api/movies/slug/{slug}", s.handleGetMovieBySlug)
	s.mux.HandleFunc("GET /api/movies/{id}", s.handleGetMovie)
	s.mux.Handle("POST /api/movies", s.adminOnly(s.handleCreateMovie))
	s.mux.Handle("PUT /api/movies/{id}", s.adminOnly(s.handleUpdateMovie))
	s.mux.Handle("DELETE /api/movies/{id}", s.adminOnly(s.handleDeleteMovie))

	s.mux.HandleFunc("GET /api/genres", s.handleListGenres)
	s.mux.HandleFunc("GET /api/genres/{id}", s.handleGetGenre)
	s.mux.Handle("POST /api/genres", s.adminOnly(s.handleCreateGenre))
	s.mux.Handle("PUT /api/genres/{id}", s.adminOnly(s.handleUpdateGenre))
	s.mux.Handle("DELETE /api/genres/{id}", s.adminOnly(s.handleDeleteGenre))

	s.mux.HandleFunc("GET /api/actors", s.handleListActors)
	s.mux.HandleFunc("GET /api/actors/{id}", s.handleGetActor)
	s.mux.HandleFunc("GET /api/actors/{id}/movies", s.handleActorMovies)
	s.mux.Handle("POST /api/actors", s.adminOnly(s.handleCreateActor))
	s.mux.Handle("PUT /api/actors/{id}", s.adminOnly(s.handleUpdateActor))
	s.mux.Handle("DELETE /api/actors/{id}", s.adminOnly(s.handleDeleteActor))

	s.mux.HandleFunc("GET /api/directors", s.handleListDirectors)
	s.mux.HandleFunc("GET /api/directors/{id}", s.handleGetDirector)
	s.mux.HandleFunc("GET /api/directors/{id}/movies", s.handleDirectorMovies)
	s.mux.Handle("POST /api/directors", s.adminOnly(s.handleCreateDirector))
	s.mux.Handle("PUT /api/directors/{id}", s.adminOnly(s.handleUpdateDirector))
	s.mux.Handle("DELETE /api/directors/{id}", s.adminOnly(s.handleDeleteDirector))

	// engagement
	s.mux.Handle("GET /api/movies/{id}/reviews", s.optionalAuth(s.handleMovieReviews))
	s.mux.Handle("POST /api/movies/{id}/reviews", s.authenticated(s.handleCreateReview))
	s.mux.Handle("POST /api/movies/{id}/like", s.authenticated(s.handleLikeMovie))
	s.mux.Handle("DELETE /api/movies/{id}/like", s.authenticated(s.handleUnlikeMovie))

	s.mux.HandleFunc("GET /api/reviews/latest", s.handleLatestReviews)
	s.mux.HandleFunc("GET /api/reviews/{id}", s.handleGetReview)
	s.mux.Handle("PATCH /api/reviews/{id}", s.authenticated(s.handleUpdateReview))
	s.mux.Handle("DELETE /api/reviews/{id}", s.authenticated(s.handleDeleteReview))
	s.mux.Handle("POST /api/reviews/{id}/like", s.authenticated(s.handleLikeReview))
	s.mux.Handle("DELETE /api/reviews/{id}/like", s.authenticated(s.handleUnlikeReview))
	s.mux.HandleFunc("GET /api/reviews/{id}/likes", s.handleReviewLikes)
	s.mux.HandleFunc("GET /api/users/{id}/reviews", s.handleUserReviews)

	s.mux.Handle("POST /api/bookmarks", s.authenticated(s.handleAddBookmark))
	s.mux.Handle("GET /api/bookmarks", s.authenticated(s.handleListBookmarks))
	s.mux.Handle("GET /api/bookmarks/folders", s.authenticated(s.handleBookmarkFolders))
	s.mux.Handle("PATCH /api/bookmarks/{id}", s.authenticated(s.handleUpdateBookmark))
	s.mux.Handle("DELETE /api/bookmarks/{id}", s.authenticated(s.handleDeleteBookmark))

	// admin
	s.mux.Handle("GET /api/admin/users", s.adminOnly(s.handleAdminListUsers))
	s.mux.Handle("PATCH /api/admin/users/{id}", s.adminOnly(s.handleAdminUpdateUser))
	s.mux.Handle("DELETE /api/admin/users/{id}", s.adminOnly(s.handleAdminDeleteUser))
	s.mux.Handle("POST /api/admin/reviews/{id}/approve", s.adminOnly(s.handleApproveReview))
	s.mux.Handle("POST /api/admin/reviews/{id}/reject", s.adminOnly(s.handleRejectReview))
	s.mux.Handle("GET /api/admin/stats", s.adminOnly(s.handleAdminStats))
	s.mux.Handle("POST /api/admin/uploads/{kind}", s.adminOnly(s.handleAdminUpload))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authHandler is an http handler that requires a resolved user.
type authHandler func(w http.ResponseWriter, r *http.Request, user domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authorize(r)
		if err != nil {
			s.audit(r, "auth.authorize", "fail")
			writeAppError(w, err)
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authorize(r)
		if err != nil {
			s.audit(r, "admin.authorize", "fail")
			writeAppError(w, err)
			return
		}
		if user.Role != domain.RoleAdmin {
			s.audit(r, "admin.authorize", "fail", "user_id", user.ID, "reason", "forbidden")
			writeError(w, http.StatusForbidden, "administrator access required")
			return
		}
		next(w, r, user)
	})
}

// optionalAuth resolves the user when a valid token is present and continues
// as a guest otherwise.
func (s *Server) optionalAuth(next func(w http.ResponseWriter, r *http.Request, user *domain.User)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := bearerToken(r); !ok {
			next(w, r, nil)
			return
		}
		user, err := s.authorize(r)
		if err != nil {
			next(w, r, nil)
			return
		}
		next(w, r, &user)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, app.Unauthenticatedf("missing bearer token")
	}
	return s.app.Authenticate(r.Context(), token)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, app.Validationf("invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return app.Validationf("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError maps the app error taxonomy onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch app.KindOf(err) {
	case app.KindValidation:
		status = http.StatusBadRequest
	case app.KindUnauthenticated:
		status = http.StatusUnauthorized
	case app.KindForbidden:
		status = http.StatusForbidden
	case app.KindNotFound:
		status = http.StatusNotFound
	case app.KindConflict:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "err", err)
	}
	writeError(w, status, app.MessageOf(err))
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", s.clientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	if outcome == "success" {
		slog.Info("security_event", logAttrs...)
		return
	}
	slog.Warn("security_event", logAttrs...)
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + s.clientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) clientIP(r *http.Request) string {
	return util.ClientIP(r, s.trustedProxies)
}
