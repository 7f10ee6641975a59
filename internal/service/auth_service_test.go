package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sienep-api/internal/models"
	appErrors "github.com/noah-isme/sienep-api/pkg/errors"
)

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Verify(plaintext, digest string) bool { return digest == "hashed:"+plaintext }

type mockAuthRepo struct {
	user            *models.UserWithRole
	credentialsErr  error
	findByIDErr     error
	changedPassword string
}

func (m *mockAuthRepo) ValidateCredentials(ctx context.Context, email, password string) (*models.UserWithRole, error) {
	if m.credentialsErr != nil {
		return nil, m.credentialsErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return &m.user.User, nil
}

func (m *mockAuthRepo) FindNonSensitiveByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	projected := m.user.User
	projected.PasswordHash = ""
	return &projected, nil
}

func (m *mockAuthRepo) ChangePassword(ctx context.Context, id int64, password string) error {
	m.changedPassword = password
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "secret", Expiration: time.Hour, Issuer: "sienep-api"}
}

func staffUserWithRole() *models.UserWithRole {
	roleID := int64(3)
	roleName := "counselor"
	return &models.UserWithRole{
		User: models.User{
			ID:           7,
			FirstName:    "Maria",
			LastName:     "Silva",
			Email:        "maria@example.com",
			PasswordHash: "hashed:password",
			Status:       models.StatusActive,
			Kind:         models.KindStaff,
		},
		RoleID:   &roleID,
		RoleName: &roleName,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "maria@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, int64(7), res.User.ID)
	assert.Equal(t, "counselor", res.User.RoleName)
}

func TestAuthServiceLoginRejectsMalformedEmail(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceLoginPropagatesCredentialFailure(t *testing.T) {
	repo := &mockAuthRepo{credentialsErr: appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid credentials")}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "maria@example.com", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	err := svc.ChangePassword(context.Background(), 7, models.ChangePasswordRequest{
		CurrentPassword: "password",
		NewPassword:     "fresh-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-password", repo.changedPassword)
}

func TestAuthServiceChangePasswordRejectsWrongCurrent(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	err := svc.ChangePassword(context.Background(), 7, models.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "fresh-password",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.changedPassword)
}

func TestAuthServiceProfileOmitsCredential(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	user, err := svc.Profile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthServiceProfilePropagatesNotFound(t *testing.T) {
	repo := &mockAuthRepo{
		user:        staffUserWithRole(),
		findByIDErr: appErrors.Clone(appErrors.ErrNotFound, "user not found"),
	}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Profile(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	svc := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	token, err := svc.generateAccessToken(repo.user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.KindStaff, claims.Kind)
	require.NotNil(t, claims.RoleID)
	assert.Equal(t, int64(3), *claims.RoleID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := &mockAuthRepo{user: staffUserWithRole()}
	issuer := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), AuthConfig{Secret: "other", Expiration: time.Hour})
	verifier := NewAuthService(repo, fakeHasher{}, validator.New(), zap.NewNop(), testAuthConfig())

	token, err := issuer.generateAccessToken(repo.user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}
