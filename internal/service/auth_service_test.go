package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockAuthRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revokedUsers  []string
	auditLogs     []*models.AuditLog
	lastLogin     map[string]time.Time
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	m := &mockAuthRepo{
		users:         map[string]*models.User{},
		refreshTokens: map[string]*models.RefreshToken{},
		lastLogin:     map[string]time.Time{},
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogin[id] = ts
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.users[id].PasswordHash = passwordHash
	return nil
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	copy := *token
	m.refreshTokens[token.TokenHash] = &copy
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	if rt, ok := m.refreshTokens[tokenHash]; ok {
		copy := *rt
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, rt := range m.refreshTokens {
		if rt.ID == id {
			ts := revokedAt
			rt.RevokedAt = &ts
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newTestUser(t *testing.T, id string, role models.UserRole, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: id, Email: id + "@example.com", FullName: "User " + id, Role: role, Active: true, PasswordHash: string(hash)}
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "sis-api"})
}

func TestAuthServiceLoginIssuesValidTokens(t *testing.T) {
	user := newTestUser(t, "ayu", models.RoleStudent, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ayu@example.com", Password: "password123", IP: "127.0.0.1"})
	require.NoError(t, err)
	assert.EqualValues(t, 3600, resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ayu", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, stored := repo.refreshTokens[resp.RefreshToken]
	assert.False(t, stored, "refresh token must be stored hashed")
	_, stored = repo.refreshTokens[hashToken(resp.RefreshToken)]
	assert.True(t, stored)
	assert.Contains(t, repo.lastLogin, "ayu")
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	user := newTestUser(t, "ayu", models.RoleStudent, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ayu@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	user.Active = false
	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ayu@example.com", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	user := newTestUser(t, "budi", models.RoleTeacher, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "unknown"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRefreshRejectsExpired(t *testing.T) {
	user := newTestUser(t, "budi", models.RoleTeacher, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(8 * 24 * time.Hour) }
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceLogoutChecksOwner(t *testing.T) {
	user := newTestUser(t, "budi", models.RoleTeacher, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "budi@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else", "", "")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, "budi", "", ""))
	assert.True(t, repo.refreshTokens[hashToken(login.RefreshToken)].Revoked())
}

func TestAuthServiceChangePassword(t *testing.T) {
	user := newTestUser(t, "admin", models.RoleAdmin, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), "admin", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	require.NoError(t, svc.ChangePassword(context.Background(), "admin", models.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["admin"].PasswordHash), []byte("newpassword")))
	assert.Equal(t, []string{"admin"}, repo.revokedUsers)
}

func TestAuthServiceValidateTokenRejectsOtherSecret(t *testing.T) {
	user := newTestUser(t, "ayu", models.RoleStudent, "password123")
	repo := newMockAuthRepo(user)
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ayu@example.com", Password: "password123"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceMe(t *testing.T) {
	user := newTestUser(t, "ayu", models.RoleStudent, "password123")
	svc := newTestAuthService(newMockAuthRepo(user))

	info, err := svc.Me(context.Background(), "ayu")
	require.NoError(t, err)
	assert.Equal(t, "ayu@example.com", info.Email)

	_, err = svc.Me(context.Background(), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
