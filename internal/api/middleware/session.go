package middleware

import (
	"context"
	"net/http"

	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/service"
)

type contextKey string

const (
	ViewerKey contextKey = "viewer"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "storyshare_session"

// ResolveSession resolves the session cookie into a viewer identity on
// every request. No cookie, an unknown token, an expired token, or a
// failing session store all yield the anonymous viewer; this middleware
// never rejects a request.
func ResolveSession(sessions *service.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := domain.Anonymous()
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				viewer = sessions.Resolve(r.Context(), cookie.Value)
			}
			ctx := context.WithValue(r.Context(), ViewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous viewers. It assumes ResolveSession already
// ran.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := GetViewer(r.Context())
		if !viewer.Authenticated {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetViewer returns the resolved viewer, or the anonymous viewer if the
// session middleware did not run.
func GetViewer(ctx context.Context) domain.Viewer {
	if viewer, ok := ctx.Value(ViewerKey).(domain.Viewer); ok {
		return viewer
	}
	return domain.Anonymous()
}
