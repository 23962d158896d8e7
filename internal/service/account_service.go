package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-rango-app/internal/auth"
	"go-rango-app/internal/data"
	"go-rango-app/internal/forms"
	"go-rango-app/internal/upload"
)

const (
	// pictureDir is the key prefix of stored profile pictures.
	pictureDir = "profile_images"
	// ssoUsernameAttempts bounds the numbered usernames tried for a new
	// OIDC account whose preferred username is taken.
	ssoUsernameAttempts = 10
)

// Profile is what a signed-in user sees of their own profile.
type Profile struct {
	Website    string
	PictureURL string
}

// UserRepository defines the interface for database operations on users.
type UserRepository interface {
	Insert(ctx context.Context, user *data.User) error
	CreateWithProfile(ctx context.Context, user *data.User, profile *data.UserProfile) error
	GetByUsername(ctx context.Context, username string) (*data.User, error)
	GetByOIDCIdentity(ctx context.Context, issuer, subject string) (*data.User, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*data.UserProfile, error)
}

// AccountServicer defines the interface for registration and sign-in.
type AccountServicer interface {
	Register(ctx context.Context, userForm *forms.UserForm, profileForm *forms.ProfileForm) (*data.User, error)
	Authenticate(ctx context.Context, username, password string) (*data.User, error)
	FindOrCreateSSOUser(ctx context.Context, claims auth.Claims) (*data.User, error)
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

// AccountService provides business logic for user accounts.
type AccountService struct {
	users           UserRepository
	pictures        upload.Store
	maxPictureBytes int64
}

// NewAccountService creates a new AccountService. Profile pictures are
// written to pictures and limited to maxPictureBytes.
func NewAccountService(users UserRepository, pictures upload.Store, maxPictureBytes int64) *AccountService {
	return &AccountService{
		users:           users,
		pictures:        pictures,
		maxPictureBytes: maxPictureBytes,
	}
}

// Register validates both bound forms and creates the account and its
// profile. The password is hashed before anything is written, and a stored
// picture is removed again when the account cannot be created. On
// ErrFailedValidation the reasons are recorded on the forms.
func (s *AccountService) Register(ctx context.Context, userForm *forms.UserForm, profileForm *forms.ProfileForm) (*data.User, error) {
	// Validate both so that every error is reported at once.
	userValid := userForm.Valid()
	profileValid := profileForm.Valid()
	if !userValid || !profileValid {
		return nil, ErrFailedValidation
	}

	hash, err := auth.HashPassword(userForm.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &data.User{
		Username:     userForm.Username,
		Email:        userForm.Email,
		PasswordHash: hash,
		IsActive:     true,
	}

	profile := &data.UserProfile{Website: profileForm.Website}
	if profileForm.Picture != nil {
		key, err := s.storePicture(ctx, profileForm)
		if err != nil {
			return nil, err
		}
		profile.Picture = key
	}

	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		s.discardPicture(ctx, profile.Picture)
		if errors.Is(err, data.ErrDuplicateRecord) {
			userForm.Errors.Add("username", "A user with that username already exists.")
			return nil, ErrFailedValidation
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

func (s *AccountService) storePicture(ctx context.Context, profileForm *forms.ProfileForm) (string, error) {
	buffer, mtype, err := upload.ReadImage(profileForm.Picture, s.maxPictureBytes)
	switch {
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		profileForm.Errors.Add("picture", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		return "", ErrFailedValidation
	case errors.Is(err, upload.ErrContentTooLarge):
		profileForm.Errors.Add("picture", fmt.Sprintf("Ensure the image is at most %d bytes.", s.maxPictureBytes))
		return "", ErrFailedValidation
	case err != nil:
		return "", err
	}

	key := upload.NewKey(pictureDir, mtype)
	if err := s.pictures.Put(ctx, key, mtype.String(), buffer); err != nil {
		return "", err
	}
	return key, nil
}

// discardPicture removes a stored picture whose profile was never written.
// A failed delete is ignored.
func (s *AccountService) discardPicture(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_ = s.pictures.Delete(ctx, key)
}

// Profile returns the profile of userID with a resolved picture URL. Users
// created through OIDC have no profile and get ErrRecordNotFound.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	profile, err := s.users.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{Website: profile.Website}
	if profile.Picture != "" {
		p.PictureURL = s.pictures.URL(profile.Picture)
	}
	return p, nil
}

// Authenticate checks a username and password pair. It returns the matching
// user, active or not, or ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*data.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.PasswordMatches(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateSSOUser returns the local user linked to the provider account
// in the verified ID token claims, creating a password-less account on first
// sign-in. Accounts are matched by issuer and subject only. A new account
// never takes over an existing username: when the preferred one is taken a
// numbered variant is used instead.
func (s *AccountService) FindOrCreateSSOUser(ctx context.Context, claims auth.Claims) (*data.User, error) {
	if claims.Issuer == "" || claims.Subject == "" {
		return nil, ErrMissingIdentity
	}
	user, err := s.users.GetByOIDCIdentity(ctx, claims.Issuer, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, data.ErrRecordNotFound) {
		return nil, err
	}

	base := claims.Username()
	for i := 1; i <= ssoUsernameAttempts; i++ {
		username := base
		if i > 1 {
			username = fmt.Sprintf("%s-%d", base, i)
		}
		user = &data.User{
			Username:    username,
			Email:       claims.Email,
			IsActive:    true,
			OIDCIssuer:  sql.NullString{String: claims.Issuer, Valid: true},
			OIDCSubject: sql.NullString{String: claims.Subject, Valid: true},
		}
		err := s.users.Insert(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, data.ErrDuplicateRecord) {
			return nil, fmt.Errorf("failed to create single sign-on user: %w", err)
		}
		// A concurrent first sign-in may have linked the identity already.
		if existing, err := s.users.GetByOIDCIdentity(ctx, claims.Issuer, claims.Subject); err == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("failed to create single sign-on user: no free username for %q", base)
}

// CreateUser creates an account outside of the registration flow.
func (s *AccountService) CreateUser(ctx context.Context, username, email, password string, active bool) (*data.User, error) {
	form := forms.BindUserForm(map[string][]string{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	if !form.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrFailedValidation, form.Errors)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &data.User{Username: username, Email: email, PasswordHash: hash, IsActive: active}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
