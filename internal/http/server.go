// Package http wires the expense tracker's HTTP surface: routing, session
// gating, flash messages, and template rendering. Handlers stay thin;
// derived metrics live in internal/core and orchestration in
// internal/services.
package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendtrack/internal/auth"
	"spendtrack/internal/core"
	"spendtrack/internal/services"
	appweb "spendtrack/web"
)

// Context key type to avoid collisions.
type contextKey string

// identityKey carries the resolved *core.User of an authenticated request.
const identityKey contextKey = "identity"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session"

type Server struct {
	http.Server
	templates    *template.Template
	auth         *auth.Service
	ledger       *services.LedgerService
	rateLimiter  *rateLimiter
	secureCookie bool
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, ledger *services.LedgerService, secureCookie bool) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:         authSvc,
		ledger:       ledger,
		rateLimiter:  newRateLimiter(),
		secureCookie: secureCookie,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Public pages
	mux.HandleFunc("GET /{$}", s.withMiddleware(s.handleWelcome))
	mux.HandleFunc("GET /home", s.withMiddleware(s.handleHome))
	mux.HandleFunc("GET /signup", s.withMiddleware(s.handleSignupForm))
	mux.HandleFunc("POST /signup", s.withMiddleware(s.handleSignup))
	mux.HandleFunc("GET /login", s.withMiddleware(s.handleLoginForm))
	mux.HandleFunc("POST /login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("GET /logout", s.withMiddleware(s.handleLogout))

	// Everything below requires an active session.
	mux.HandleFunc("GET /dashboard", s.withMiddleware(s.requireSession(s.handleDashboard)))
	mux.HandleFunc("POST /set_income", s.withMiddleware(s.requireSession(s.handleSetIncome)))
	mux.HandleFunc("POST /add_expense", s.withMiddleware(s.requireSession(s.handleAddExpense)))
	mux.HandleFunc("GET /delete/{id}", s.withMiddleware(s.requireSession(s.handleDeleteExpense)))
	mux.HandleFunc("GET /edit/{id}", s.withMiddleware(s.requireSession(s.handleEditExpenseForm)))
	mux.HandleFunc("POST /edit/{id}", s.withMiddleware(s.requireSession(s.handleEditExpense)))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientIPOf(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate-limit form submissions only.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// requireSession resolves the session cookie to an identity and stores it
// in the request context; without one the client is redirected to /login.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		user, err := s.auth.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				slog.ErrorContext(r.Context(), "Session resolution failed", "error", err)
			}
			s.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next(w, r.WithContext(ctx))
	}
}

// identityFrom returns the authenticated user stored by requireSession.
func identityFrom(r *http.Request) *core.User {
	user, _ := r.Context().Value(identityKey).(*core.User)
	return user
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
