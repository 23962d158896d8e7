package middleware

import (
	"go-rango-app/internal/auth"
	"go-rango-app/internal/session"
	"net/http"
	"net/url"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data.
// Denied anonymous visitors are sent to loginURL with the requested path in
// "next"; denied users get a 403.
func Authorizer(e casbin.IEnforcer, sm session.Manager, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Subject: auth.RoleAnonymous}
			if sm.Exists(r.Context(), session.UserIDKey) {
				userInfo = &UserInfo{
					UserID:   sm.GetInt64(r.Context(), session.UserIDKey),
					Username: sm.GetString(r.Context(), session.UsernameKey),
					Subject:  auth.RoleUser,
				}
			}

			// Add user info to the request context for downstream handlers.
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			// Use Casbin to enforce the policy.
			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if !userInfo.IsAuthenticated() {
					http.Redirect(w, r, loginURL+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
