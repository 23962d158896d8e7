package data

import (
	"database/sql"
	"time"
)

// Category groups pages under a unique name. Slug is derived from Name.
type Category struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Slug  string `db:"slug"`
	Views int    `db:"views"`
	Likes int    `db:"likes"`
}

// Page is a link that belongs to exactly one category.
type Page struct {
	ID         int64  `db:"id"`
	CategoryID int64  `db:"category_id"`
	Title      string `db:"title"`
	URL        string `db:"url"`
	Views      int    `db:"views"`
}

// User is a registered account. PasswordHash always holds a bcrypt hash,
// or an empty string for accounts that can only sign in through OIDC.
// OIDCIssuer and OIDCSubject identify the provider account of an OIDC user
// and are NULL for everyone else.
type User struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	IsActive     bool           `db:"is_active"`
	DateJoined   time.Time      `db:"date_joined"`
	OIDCIssuer   sql.NullString `db:"oidc_issuer"`
	OIDCSubject  sql.NullString `db:"oidc_subject"`
}

// UserProfile holds the optional extras collected at registration.
type UserProfile struct {
	ID      int64  `db:"id"`
	UserID  int64  `db:"user_id"`
	Website string `db:"website"`
	Picture string `db:"picture"`
}
