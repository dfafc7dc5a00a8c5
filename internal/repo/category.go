package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/transport"
)

type CategoryFilter struct {
	ParentID   *uuid.UUID
	ParentSlug string
	MainOnly   bool
}

func (r *GormRepo) GetCategories(ctx context.Context, f CategoryFilter) ([]models.Category, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{})

	if f.ParentSlug != "" {
		var parent models.Category
		if err := r.DB.WithContext(ctx).Where("slug = ?", f.ParentSlug).First(&parent).Error; err != nil {
			// Unknown parent slug yields an empty list, not an error.
			if err == gorm.ErrRecordNotFound {
				return []models.Category{}, nil
			}
			return nil, err
		}
		q = q.Where("parent_id = ?", parent.ID)
	} else if f.ParentID != nil {
		q = q.Where("parent_id = ?", *f.ParentID)
	} else if f.MainOnly {
		q = q.Where("parent_id IS NULL")
	}

	var cats []models.Category
	if err := q.Order("sort_order ASC, name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&cat).Error; err != nil {
			return err
		}

		if req.Name != nil {
			cat.Name = *req.Name
		}
		if req.Slug != nil {
			cat.Slug = *req.Slug
		}
		if req.Description != nil {
			cat.Description = *req.Description
		}
		if req.Image != nil {
			cat.Image = *req.Image
		}
		if req.ParentID != nil {
			cat.ParentID = req.ParentID
		}
		if req.IsMain != nil {
			cat.IsMain = *req.IsMain
		}
		if req.IsActive != nil {
			cat.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			cat.SortOrder = *req.SortOrder
		}

		return tx.Save(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountSubcategories(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("parent_id = ?", id).
		Count(&n).Error
	return n, err
}
