package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"go-rango-app/internal/auth"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/logger"
	"go-rango-app/internal/middleware"
	"go-rango-app/internal/service"
	"go-rango-app/internal/session"
	"io"
	"net/http"
	"time"
)

const (
	restrictedMessage   = "Since you're logged in, you can see this text!"
	disabledMessage     = "Your Rango account is disabled."
	invalidLoginMessage = "Invalid login details supplied."
)

// AccountHandler holds the dependencies for registration, login and logout.
type AccountHandler struct {
	accounts service.AccountServicer
	auth     *auth.Authenticator
	sessions session.Manager
	view     middleware.Renderer
	log      logger.Logger
	maxBody  int64
}

// NewAccountHandler creates a new AccountHandler. a may be nil, in which
// case single sign-on is unavailable. maxUpload bounds the size of a
// registration request's picture.
func NewAccountHandler(as service.AccountServicer, a *auth.Authenticator, sm session.Manager, v middleware.Renderer, log logger.Logger, maxUpload int64) *AccountHandler {
	return &AccountHandler{
		accounts: as,
		auth:     a,
		sessions: sm,
		view:     v,
		log:      log,
		// Leave room for the other form fields and multipart framing.
		maxBody: maxUpload + 1<<20,
	}
}

// registerHandler shows the registration forms and handles their submission.
func (h *AccountHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userForm := forms.NewUserForm()
	profileForm := forms.NewProfileForm()
	registered := false

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
		if err := r.ParseMultipartForm(h.maxBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return &middleware.AppError{Error: err, Message: "Malformed registration form", Code: http.StatusBadRequest}
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		userForm = forms.BindUserForm(r.PostForm)
		profileForm = forms.BindProfileForm(r)

		_, err := h.accounts.Register(r.Context(), userForm, profileForm)
		switch {
		case err == nil:
			registered = true
		case errors.Is(err, service.ErrFailedValidation):
			h.log.With(map[string]interface{}{
				"user_errors":    userForm.Errors.String(),
				"profile_errors": profileForm.Errors.String(),
			}).Warn("Invalid registration form")
		default:
			return &middleware.AppError{Error: err, Message: "Failed to register user", Code: http.StatusInternalServerError}
		}
	}

	data := map[string]interface{}{
		"UserForm":    userForm,
		"ProfileForm": profileForm,
		"Registered":  registered,
	}
	if err := h.view.Render(w, r, "register.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render registration page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler shows the login form and checks submitted credentials.
func (h *AccountHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if r.Method != http.MethodPost {
		data := map[string]interface{}{
			"Next":       r.URL.Query().Get("next"),
			"SSOEnabled": h.auth != nil,
		}
		if err := h.view.Render(w, r, "login.html", data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return &middleware.AppError{Error: err, Message: "Malformed login form", Code: http.StatusBadRequest}
	}
	username := r.PostForm.Get("username")

	user, err := h.accounts.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.With(map[string]interface{}{"username": username}).Warn("Invalid login details supplied")
			writeText(w, invalidLoginMessage)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to log in", Code: http.StatusInternalServerError}
	}
	if !user.IsActive {
		writeText(w, disabledMessage)
		return nil
	}

	if err := h.startSession(r, user); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/rango/", http.StatusFound)
	return nil
}

// restrictedHandler greets a signed-in user and shows their profile when
// they have one.
func (h *AccountHandler) restrictedHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	profile, err := h.accounts.Profile(r.Context(), userInfo.UserID)
	if err != nil && !errors.Is(err, service.ErrRecordNotFound) {
		return &middleware.AppError{Error: err, Message: "Failed to load profile", Code: http.StatusInternalServerError}
	}
	data := map[string]interface{}{
		"Message": restrictedMessage,
		"Profile": profile,
	}
	if err := h.view.Render(w, r, "restricted.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render restricted page", Code: http.StatusInternalServerError}
	}
	return nil
}

// logoutHandler destroys the session and returns to the index.
func (h *AccountHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/rango/", http.StatusFound)
	return nil
}

// oidcLoginHandler redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AccountHandler) oidcLoginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Error: errors.New("single sign-on is not configured"), Message: "Page not found", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start single sign-on", Code: http.StatusInternalServerError}
	}
	// Store the state in a short-lived cookie to verify on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/rango/login/oidc/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// oidcCallbackHandler is the redirect URL for the OIDC provider.
// It handles the code exchange and token verification, then logs the
// matching local user in.
func (h *AccountHandler) oidcCallbackHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Error: errors.New("single sign-on is not configured"), Message: "Page not found", Code: http.StatusNotFound}
	}

	// Verify the state parameter to prevent CSRF attacks.
	stateCookie, err := r.Cookie("state")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "State cookie not found", Code: http.StatusBadRequest}
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		return &middleware.AppError{Error: errors.New("state mismatch"), Message: "State did not match", Code: http.StatusBadRequest}
	}
	http.SetCookie(w, &http.Cookie{Name: "state", Path: "/rango/login/oidc/", MaxAge: -1})

	// Exchange the authorization code for an OAuth2 token.
	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to exchange token", Code: http.StatusInternalServerError}
	}

	// Extract the ID Token from the OAuth2 token.
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return &middleware.AppError{Error: errors.New("no id_token in token response"), Message: "No id_token field in oauth2 token", Code: http.StatusInternalServerError}
	}

	// Verify the ID Token's signature and claims.
	idToken, err := h.auth.IDTokenVerifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to verify ID Token", Code: http.StatusInternalServerError}
	}
	var claims auth.Claims
	if err := idToken.Claims(&claims); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to read ID Token claims", Code: http.StatusInternalServerError}
	}

	user, err := h.accounts.FindOrCreateSSOUser(r.Context(), claims)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log in", Code: http.StatusInternalServerError}
	}
	if !user.IsActive {
		writeText(w, disabledMessage)
		return nil
	}

	if err := h.startSession(r, user); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to start session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/rango/", http.StatusFound)
	return nil
}

// startSession logs user in on a fresh session token.
func (h *AccountHandler) startSession(r *http.Request, user *data.User) error {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessions.Put(r.Context(), session.UserIDKey, user.ID)
	h.sessions.Put(r.Context(), session.UsernameKey, user.Username)
	h.log.With(map[string]interface{}{"username": user.Username}).Info("User logged in")
	return nil
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, body)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
