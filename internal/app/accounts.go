package app

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// AccountService handles registration, sign-in and sessions. The admin
// identity lives in configuration only: exact case-insensitive email plus
// the fixed password, never in the user registry.
type AccountService struct {
	users         domain.UserRepository
	sessions      domain.SessionStore
	adminEmail    string
	adminPassword string
	sessionTTL    time.Duration
}

func NewAccountService(u domain.UserRepository, s domain.SessionStore, adminEmail, adminPassword string, ttl time.Duration) *AccountService {
	return &AccountService{
		users:         u,
		sessions:      s,
		adminEmail:    strings.ToLower(adminEmail),
		adminPassword: adminPassword,
		sessionTTL:    ttl,
	}
}

// Register creates a user with the role fixed for good. The role arrives
// once, here; sign-in never chooses it again.
func (s *AccountService) Register(ctx context.Context, fullName, email, password string, role domain.Role) (domain.StoredUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return domain.StoredUser{}, domain.ErrAuthorizationDenied
	}
	if role != domain.RoleOwner && role != domain.RoleBooker {
		return domain.StoredUser{}, domain.ErrAuthorizationDenied
	}
	// The admin address is reserved even though it is never stored.
	if email == s.adminEmail {
		return domain.StoredUser{}, domain.ErrDuplicateEmail
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StoredUser{}, err
	}
	u := domain.StoredUser{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.RegisterUser(ctx, u); err != nil {
		return domain.StoredUser{}, err
	}
	return u, nil
}

// Authenticate verifies credentials and opens a session, returning the
// session projection and its opaque token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (domain.CurrentUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.adminPassword != "" && email == s.adminEmail {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
			return domain.CurrentUser{}, "", domain.ErrAuthorizationDenied
		}
		cu := domain.CurrentUser{Email: s.adminEmail, FullName: "Administrator", Role: domain.RoleAdmin}
		token, err := s.openSession(ctx, cu)
		return cu, token, err
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.CurrentUser{}, "", domain.ErrAuthorizationDenied
		}
		return domain.CurrentUser{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.CurrentUser{}, "", domain.ErrAuthorizationDenied
	}
	cu := domain.CurrentUser{Email: u.Email, FullName: u.FullName, Role: u.Role}
	token, err := s.openSession(ctx, cu)
	return cu, token, err
}

func (s *AccountService) openSession(ctx context.Context, cu domain.CurrentUser) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, cu, int(s.sessionTTL.Seconds())); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a bearer token back to the session user. A missing or
// expired token yields the zero CurrentUser, not an error.
func (s *AccountService) Resolve(ctx context.Context, token string) (domain.CurrentUser, error) {
	if token == "" {
		return domain.CurrentUser{}, nil
	}
	cu, ok, err := s.sessions.Get(ctx, token)
	if err != nil || !ok {
		return domain.CurrentUser{}, err
	}
	return cu, nil
}

func (s *AccountService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Del(ctx, token)
}

// ListUsers is admin-only moderation.
func (s *AccountService) ListUsers(ctx context.Context, actor domain.CurrentUser) ([]domain.StoredUser, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrAuthorizationDenied
	}
	return s.users.ListUsers(ctx)
}

// DeleteUser removes a registry entry. The admin identity is not in the
// registry and refuses deletion outright.
func (s *AccountService) DeleteUser(ctx context.Context, actor domain.CurrentUser, email string) error {
	if !actor.Authenticated() {
		return domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrAuthorizationDenied
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == s.adminEmail {
		return domain.ErrAuthorizationDenied
	}
	return s.users.DeleteUser(ctx, email)
}
