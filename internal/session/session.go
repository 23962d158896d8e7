package session

import (
	"context"
	"net/http"
)

// Session keys shared by the login flows and the authorization guard.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
// *scs.SessionManager satisfies it.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	GetInt64(ctx context.Context, key string) int64
	Exists(ctx context.Context, key string) bool
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
}
