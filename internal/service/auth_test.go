package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weldmart/storefront/internal/hash"
	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/tokens"
)

// captureMailer records outgoing mail so tests can read the issued codes.
type captureMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *repo.GormRepo, *captureMailer) {
	t.Helper()
	r := newTestRepo(t)
	m := &captureMailer{}
	svc := &AuthService{
		Repo:          r,
		Mailer:        m,
		JWTSecret:     []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AdminEmails:   []string{"boss@weldmart.in"},
	}
	return svc, r, m
}

func pendingCode(t *testing.T, r *repo.GormRepo, email, purpose string) *models.VerificationCode {
	t.Helper()
	vc, err := r.GetPendingVerificationCode(context.Background(), email, purpose)
	require.NoError(t, err)
	return vc
}

func TestRegisterCreatesUserAndIssuesCode(t *testing.T) {
	svc, r, m := newAuthService(t)

	user, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Ravi",
		Email:    "  Ravi@Example.com ",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email, "email is normalized")
	assert.Equal(t, "user", user.Role)
	assert.False(t, user.Verified)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "secret123"))

	vc := pendingCode(t, r, "ravi@example.com", models.PurposeVerifyEmail)
	assert.Len(t, vc.Code, 6)
	assert.Equal(t, models.CodePending, vc.Status)

	require.Len(t, m.to, 1)
	assert.Equal(t, "ravi@example.com", m.to[0])
	assert.Contains(t, m.body[0], vc.Code)
}

func TestRegisterAdminEmailGetsAdminRole(t *testing.T) {
	svc, _, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Boss",
		Email:    "BOSS@weldmart.in",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
}

func TestRegisterRejectsDuplicateAndShortPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Other", Email: "ravi@example.com", Password: "secret456",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyEmailFlow(t *testing.T) {
	svc, r, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	vc := pendingCode(t, r, "ravi@example.com", models.PurposeVerifyEmail)

	wrong := "000000"
	if wrong == vc.Code {
		wrong = "111111"
	}
	err = svc.VerifyEmail(context.Background(), "ravi@example.com", wrong)
	assert.ErrorIs(t, err, ErrCodeInvalid)

	require.NoError(t, svc.VerifyEmail(context.Background(), "ravi@example.com", vc.Code))

	user, err := r.GetUserByEmail(context.Background(), "ravi@example.com")
	require.NoError(t, err)
	assert.True(t, user.Verified)

	// The code is consumed; replaying it fails.
	err = svc.VerifyEmail(context.Background(), "ravi@example.com", vc.Code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	svc, r, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	vc := pendingCode(t, r, "ravi@example.com", models.PurposeVerifyEmail)

	require.NoError(t, r.DB.Model(&models.VerificationCode{}).
		Where("id = ?", vc.ID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	err = svc.VerifyEmail(context.Background(), "ravi@example.com", vc.Code)
	assert.ErrorIs(t, err, ErrCodeExpired)

	// Expired codes are dropped, so the retry sees no pending code at all.
	err = svc.VerifyEmail(context.Background(), "ravi@example.com", vc.Code)
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestLoginIssuesParseableTokens(t *testing.T) {
	svc, r, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "ravi@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, pair.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "user", claims.Role)

	refresh, err := tokens.RefreshClaimsFromToken(pair.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), refresh.Subject)

	stored, err := r.GetRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, stored.Revoked)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ravi@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, r, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "ravi@example.com", "secret123")
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	old, err := r.GetRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	// The revoked token cannot be replayed.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "ravi@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPasswordDoesNotDiscloseAccounts(t *testing.T) {
	svc, r, m := newAuthService(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, m.to, "unknown emails get no mail and no error")

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ravi@example.com"))
	vc := pendingCode(t, r, "ravi@example.com", models.PurposeResetPassword)
	assert.Equal(t, models.PurposeResetPassword, vc.Purpose)
}

func TestResetPassword(t *testing.T) {
	svc, r, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "ravi@example.com"))
	vc := pendingCode(t, r, "ravi@example.com", models.PurposeResetPassword)

	err = svc.ResetPassword(context.Background(), "ravi@example.com", vc.Code, "newsecret")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ravi@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ravi@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestReissueSupersedesPendingCode(t *testing.T) {
	svc, r, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(context.Background(), "ravi@example.com"))
	require.NoError(t, svc.ForgotPassword(context.Background(), "ravi@example.com"))

	var count int64
	require.NoError(t, r.DB.Model(&models.VerificationCode{}).
		Where("email = ? AND purpose = ? AND status = ?",
			"ravi@example.com", models.PurposeResetPassword, models.CodePending).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-issuing replaces the pending code instead of stacking")
}

func TestRandomCodeWidth(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := randomCode(codeDigits)
		require.NoError(t, err)
		assert.Len(t, code, codeDigits)
	}
}
