package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dcollins/storyshare/internal/api/middleware"
	"github.com/dcollins/storyshare/internal/config"
	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/service"
)

const (
	oauthStateCookie = "storyshare_oauth_state"
	oauthStateTTL    = 5 * time.Minute
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.DisplayName == "" || req.Password == "" {
		http.Error(w, "Email, display name and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Printf("ERROR [AuthHandler.Register] %v", err)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR [AuthHandler.Register] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeSession(w, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Printf("ERROR [AuthHandler.Login] %v", err)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Printf("ERROR [AuthHandler.Login] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeSession(w, result)
}

// Logout destroys the session and clears the cookie. Safe to call with no
// cookie or a stale one; a token that is already gone is already logged
// out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("ERROR [AuthHandler.Logout] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	middleware.ClearSessionCookie(w, h.cfg.SecureCookies())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	if !viewer.Authenticated {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), viewer.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			log.Printf("ERROR [AuthHandler.Me] %v", err)
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userResponse(user))
}

// GoogleLogin redirects the browser to Google's consent screen with an
// anti-forgery state carried in a short-lived cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		log.Printf("ERROR [AuthHandler.GoogleLogin] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	url, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		http.Error(w, "Google sign-in is not available", http.StatusNotFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	result, err := h.authService.LoginWithGoogle(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "Google sign-in failed", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, service.ErrGoogleDisabled) {
			http.Error(w, "Google sign-in is not available", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [AuthHandler.GoogleCallback] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeSession(w, result)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, result *service.AuthResult) {
	middleware.SetSessionCookie(w, result.Token, result.ExpiresAt, h.cfg.SecureCookies())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user": userResponse(result.User),
	})
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
