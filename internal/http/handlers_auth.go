package http

import (
	"errors"
	"log/slog"
	"net/http"

	"spendtrack/internal/auth"
)

// pageViewModel is the shared payload of the public pages.
type pageViewModel struct {
	Flash *Flash
	Error string
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "welcome.html", pageViewModel{Flash: popFlash(w, r, s.secureCookie)})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home.html", pageViewModel{Flash: popFlash(w, r, s.secureCookie)})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signup.html", pageViewModel{Flash: popFlash(w, r, s.secureCookie)})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	form, err := parseSignupForm(r)
	if err != nil {
		setFlash(w, s.secureCookie, "error", "Invalid form submission.")
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}

	switch err := s.auth.Signup(r.Context(), form.Username, form.Password, form.ConfirmPassword); {
	case errors.Is(err, auth.ErrPasswordMismatch):
		setFlash(w, s.secureCookie, "error", "Passwords do not match. Please try again.")
		http.Redirect(w, r, "/signup", http.StatusFound)
	case errors.Is(err, auth.ErrUsernameTaken):
		setFlash(w, s.secureCookie, "error", "Username already exists. Try logging in.")
		http.Redirect(w, r, "/signup", http.StatusFound)
	case err != nil:
		slog.ErrorContext(r.Context(), "Signup failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	default:
		setFlash(w, s.secureCookie, "success", "Signup successful! Please login.")
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	// Already logged in? Straight to the dashboard.
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := s.auth.Resolve(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	s.render(w, r, "login.html", pageViewModel{Flash: popFlash(w, r, s.secureCookie)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form, err := parseLoginForm(r)
	if err != nil {
		s.render(w, r, "login.html", pageViewModel{Error: "Invalid form submission."})
		return
	}

	_, token, err := s.auth.Login(r.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.render(w, r, "login.html", pageViewModel{Error: "Invalid username or password"})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Login failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.setSessionCookie(w, token)
	setFlash(w, s.secureCookie, "success", "Login successful!")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := s.auth.Logout(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Logout failed", "error", err)
		}
	}
	s.clearSessionCookie(w)
	setFlash(w, s.secureCookie, "success", "Logged out successfully.")
	http.Redirect(w, r, "/home", http.StatusFound)
}
