package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/events"
	"github.com/weldmart/storefront/internal/hash"
	"github.com/weldmart/storefront/internal/mailer"
	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
	"github.com/weldmart/storefront/pkg/tokens"
)

const (
	codeTTL    = 10 * time.Minute
	codeDigits = 6
)

type AuthService struct {
	Repo          *repo.GormRepo
	Mailer        mailer.Mailer
	Producer      *events.Producer
	JWTSecret     []byte
	RefreshSecret []byte
	AdminEmails   []string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("name, email and a password of at least 6 characters are required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := "user"
	if s.isAdminEmail(email) {
		role = "admin"
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		Company:      req.Company,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	if err := s.sendCode(ctx, email, models.PurposeVerifyEmail); err != nil {
		logging.FromContext(ctx).Error("verification mail failed", "email", email, "error", err)
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return &user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return fmt.Errorf("email and code are required: %w", ErrValidation)
	}

	vc, err := s.Repo.GetPendingVerificationCode(ctx, email, models.PurposeVerifyEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return err
	}

	if time.Now().After(vc.ExpiresAt) {
		_ = s.Repo.DeleteVerificationCode(ctx, vc.ID)
		return ErrCodeExpired
	}
	if vc.Code != code {
		return ErrCodeInvalid
	}

	if err := s.Repo.ConsumeVerificationCode(ctx, vc.ID); err != nil {
		return err
	}
	return s.Repo.MarkUserVerified(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})
	return pair, nil
}

// Refresh rotates the token pair. The presented refresh token must parse, be
// stored, unrevoked and unexpired; the old token is revoked on success.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	stored, err := s.Repo.GetRefreshToken(ctx, refreshToken)
	if err != nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, userID, stored.Role)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// ForgotPassword always reports success to the caller; whether the email is
// registered is not disclosed. A code is only issued for known accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.sendCode(ctx, email, models.PurposeResetPassword)
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" || len(newPassword) < 6 {
		return fmt.Errorf("email, code and a password of at least 6 characters are required: %w", ErrValidation)
	}

	vc, err := s.Repo.GetPendingVerificationCode(ctx, email, models.PurposeResetPassword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeInvalid
		}
		return err
	}
	if time.Now().After(vc.ExpiresAt) {
		_ = s.Repo.DeleteVerificationCode(ctx, vc.ID)
		return ErrCodeExpired
	}
	if vc.Code != code {
		return ErrCodeInvalid
	}

	passwordHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.ConsumeVerificationCode(ctx, vc.ID); err != nil {
		return err
	}
	return s.Repo.UpdateUserPassword(ctx, email, passwordHash)
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID, role string) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.NewAccessToken(userID.String(), role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.NewRefreshToken(userID.String(), refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}

	rt := models.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		Role:      role,
		ExpiresAt: refreshExp,
	}
	if err := s.Repo.SaveRefreshToken(ctx, &rt); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      role == "admin",
	}, nil
}

func (s *AuthService) sendCode(ctx context.Context, email, purpose string) error {
	code, err := randomCode(codeDigits)
	if err != nil {
		return err
	}

	vc := models.VerificationCode{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		Status:    models.CodePending,
		ExpiresAt: time.Now().UTC().Add(codeTTL),
	}
	if err := s.Repo.IssueVerificationCode(ctx, &vc); err != nil {
		return err
	}

	subject := "Your verification code"
	if purpose == models.PurposeResetPassword {
		subject = "Your password reset code"
	}
	body := fmt.Sprintf("Your code is %s. It expires in %d minutes.", code, int(codeTTL.Minutes()))
	return s.Mailer.Send(ctx, email, subject, body)
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, a := range s.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
