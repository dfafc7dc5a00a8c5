package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
)

// IssueVerificationCode supersedes any pending code for the same email and
// purpose, then stores the new one.
func (r *GormRepo) IssueVerificationCode(ctx context.Context, code *models.VerificationCode) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ? AND purpose = ? AND status = ?",
			code.Email, code.Purpose, models.CodePending).
			Delete(&models.VerificationCode{}).Error
		if err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *GormRepo) GetPendingVerificationCode(ctx context.Context, email, purpose string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	err := r.DB.WithContext(ctx).
		Where("email = ? AND purpose = ? AND status = ?", email, purpose, models.CodePending).
		Order("created_at DESC").
		First(&vc).Error
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *GormRepo) ConsumeVerificationCode(ctx context.Context, id any) error {
	return r.DB.WithContext(ctx).Model(&models.VerificationCode{}).
		Where("id = ?", id).
		Update("status", models.CodeConsumed).Error
}

func (r *GormRepo) DeleteVerificationCode(ctx context.Context, id any) error {
	return r.DB.WithContext(ctx).Delete(&models.VerificationCode{}, "id = ?", id).Error
}

func (r *GormRepo) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) error {
	return r.DB.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.VerificationCode{}).Error
}
