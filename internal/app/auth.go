package app

import (
	"context"
	"errors"
	"strings"

	"cinelog/pkg/auth"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of register/login: the user plus a bearer token.
type Session struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a USER account and signs it in.
func (a *App) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if len(in.Username) < 3 || len(in.Username) > 50 {
		return Session{}, Validationf("username must be between 3 and 50 characters")
	}
	if !strings.Contains(in.Email, "@") {
		return Session{}, Validationf("a valid email is required")
	}
	if len(in.Password) < 6 {
		return Session{}, Validationf("password must be at least 6 characters")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, Internal(err)
	}
	user, err := a.store.CreateUser(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return Session{}, Conflictf("username or email is already taken")
	}
	if err != nil {
		return Session{}, Internal(err)
	}
	a.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return a.startSession(ctx, user)
}

// Login verifies credentials and issues a token. A deactivated account is
// rejected even with a correct password.
func (a *App) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	user, err := a.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, Unauthenticatedf("invalid email or password")
	}
	if err != nil {
		return Session{}, Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return Session{}, Unauthenticatedf("invalid email or password")
	}
	if !user.IsActive {
		return Session{}, Forbiddenf("account is deactivated")
	}
	if err := a.store.SetLastLogin(ctx, user.ID); err != nil {
		return Session{}, Internal(err)
	}
	return a.startSession(ctx, user)
}

func (a *App) startSession(_ context.Context, user domain.User) (Session, error) {
	token, err := a.tokens.Issue(user)
	if err != nil {
		return Session{}, Internal(err)
	}
	return Session{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token into a live user. The user row is
// re-loaded on every request so deactivation and deletion take effect
// immediately, not at token expiry.
func (a *App) Authenticate(ctx context.Context, rawToken string) (domain.User, error) {
	claims, err := a.tokens.Verify(rawToken)
	if err != nil {
		return domain.User{}, Unauthenticatedf("invalid or expired token")
	}
	user, err := a.store.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, Unauthenticatedf("account no longer exists")
	}
	if err != nil {
		return domain.User{}, Internal(err)
	}
	if !user.IsActive {
		return domain.User{}, Unauthenticatedf("account is deactivated")
	}
	return user, nil
}

type ProfileUpdate struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	About     *string `json:"about"`
}

// UpdateProfile edits the caller's own profile fields.
func (a *App) UpdateProfile(ctx context.Context, user domain.User, in ProfileUpdate) (domain.User, error) {
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		if len(name) < 3 || len(name) > 50 {
			return domain.User{}, Validationf("username must be between 3 and 50 characters")
		}
		user.Username = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if !strings.Contains(email, "@") {
			return domain.User{}, Validationf("a valid email is required")
		}
		user.Email = email
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}
	if in.About != nil {
		user.About = *in.About
	}
	updated, err := a.store.UpdateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.User{}, Conflictf("username or email is already taken")
	}
	if err != nil {
		return domain.User{}, Internal(err)
	}
	return updated, nil
}

// ChangePassword verifies the current password before setting a new one.
func (a *App) ChangePassword(ctx context.Context, user domain.User, current, next string) error {
	if !auth.CheckPassword(user.PasswordHash, current) {
		return Validationf("current password is incorrect")
	}
	if len(next) < 6 {
		return Validationf("password must be at least 6 characters")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return Internal(err)
	}
	user.PasswordHash = hash
	if _, err := a.store.UpdateUser(ctx, user); err != nil {
		return Internal(err)
	}
	a.log.Info("password changed", "user_id", user.ID)
	return nil
}
