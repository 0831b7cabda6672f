// Package services contains server-side business logic. Services validate
// typed form input, enforce ownership, and run multi-statement writes in a
// single transaction. Handlers translate the returned errors into page states.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/config"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides account operations and session token handling.
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	hasher         *auth.PasswordHasher
	jwtSecret      []byte
	sessionTimeout time.Duration
	now            func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = auth.DefaultSessionTimeout
	}
	return &UserService{
		db:             db,
		repomanager:    m,
		hasher:         auth.NewPasswordHasher(),
		jwtSecret:      []byte(cfg.SecretKey),
		sessionTimeout: timeout,
		now:            time.Now,
	}
}

// Register validates the input and creates the account. A taken username is
// reported against the username field.
func (s *UserService) Register(ctx context.Context, in forms.RegisterInput) (*models.User, error) {
	if fe := in.Validate(); fe.Any() {
		return nil, fe
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: in.Username, Email: in.Email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			fe := forms.FieldErrors{}
			fe.Add("username", "A user with that username already exists.")
			return nil, fe
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies credentials, records the login time and returns a signed
// session token. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, in forms.LoginInput) (string, *models.User, error) {
	if fe := in.Validate(); fe.Any() {
		return "", nil, fe
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	now := s.now()
	if err := repo.RecordLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("error recording login: %w", err)
	}
	user.LastLogin = &now

	token, err := auth.GenerateToken(user.ID, user.SessionVersion, s.jwtSecret, s.sessionTimeout)
	if err != nil {
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a session token to its user.
//
// It returns common.ErrSessionExpired when the login is older than the
// session timeout (the token expiry included), and common.ErrInvalidToken
// when the token does not name a user with an active login or was revoked
// by a logout or password change.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.LastLogin == nil || claims.SessionVersion != user.SessionVersion {
		return nil, common.ErrInvalidToken
	}
	if auth.SessionExpired(user, s.now(), s.sessionTimeout) {
		return nil, common.ErrSessionExpired
	}
	return user, nil
}

// Logout revokes every session token issued to the user.
func (s *UserService) Logout(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).RevokeSessions(ctx, id); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}

// ChangePassword sets a new password for user after the submitted email
// confirms the account. Existing sessions stop working.
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, in forms.PasswordChangeInput) error {
	if fe := in.Validate(); fe.Any() {
		return fe
	}
	if !strings.EqualFold(in.Email, user.Email) {
		return forms.NewFormError("The email does not match this account.")
	}
	return s.setPassword(ctx, user.ID, in.Password)
}

// SetPassword replaces the password of the named user without confirmation.
func (s *UserService) SetPassword(ctx context.Context, username, password string) error {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotMatched
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	return s.setPassword(ctx, user.ID, password)
}

func (s *UserService) setPassword(ctx context.Context, id, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// hashPassword turns a password bcrypt refuses for length into a field error.
func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", forms.PasswordTooLong()
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return hash, nil
}

// Delete removes the account together with its lists and tasks.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
