package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type stubUserRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	created          []*models.User
	createErr        error
	lastLoginUpdated bool
	auditLogs        []*models.AuditLog
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findByEmailErr != nil {
		return nil, s.findByEmailErr
	}
	return s.userByEmail, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.userByEmail, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, user)
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	s.lastLoginUpdated = true
	return nil
}

func (s *stubUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.auditLogs = append(s.auditLogs, log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "pfe-catalog-api",
		EmailDomain:       "@esprim.tn",
	}
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "amine@esprim.tn",
		PasswordHash: string(hash),
		FirstName:    "Amine",
		LastName:     "Ben Salah",
		Role:         models.RoleStudent,
		Active:       true,
	}
}

func TestLoginRejectsForeignDomain(t *testing.T) {
	svc := NewAuthService(&stubUserRepo{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "someone@gmail.com", Password: "secret123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrEmailDomain.Code, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{userByEmail: activeUser(t, "correct-password")}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "amine@esprim.tn", Password: "wrong-password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &stubUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@esprim.tn", Password: "whatever1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "secret123")
	user.Active = false
	svc := NewAuthService(&stubUserRepo{userByEmail: user}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "amine@esprim.tn", Password: "secret123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := &stubUserRepo{userByEmail: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "amine@esprim.tn", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	repo := &stubUserRepo{userByEmail: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "amine@esprim.tn", Password: "secret123"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "other-secret", AccessTokenExpiry: time.Hour, EmailDomain: "@esprim.tn"})
	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
}

func TestRegisterDefaultsToStudentAndRequiresSpecialty(t *testing.T) {
	repo := &stubUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "nouveau@esprim.tn",
		Password:  "secret123",
		FirstName: "Nouveau",
		LastName:  "Etudiant",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "specialty")
}

func TestRegisterCreatesStudent(t *testing.T) {
	repo := &stubUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	specialty := "Informatique"
	year := 2025
	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:          "nouveau@esprim.tn",
		Password:       "secret123",
		FirstName:      "Nouveau",
		LastName:       "Etudiant",
		Specialty:      &specialty,
		GraduationYear: &year,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
	assert.NotEqual(t, "secret123", repo.created[0].PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{userByEmail: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "amine@esprim.tn",
		Password:  "secret123",
		FirstName: "Amine",
		LastName:  "Ben Salah",
		Role:      models.RoleTeacher,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}
