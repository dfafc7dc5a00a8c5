package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

type ProductFilter struct {
	CategoryID *uuid.UUID
	Brand      string
}

func (r *GormRepo) GetProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	err := q.Preload("Variants").
		Order("sort_order ASC, created_at ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// PatchProduct applies the set fields and, when the request carries a variant
// list, replaces the product's variants with it. Entries that carry an id of
// an existing variant keep that id, so cart lines pointing at them stay live.
func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Variants").Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Slug != nil {
			prod.Slug = *req.Slug
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Brand != nil {
			prod.Brand = *req.Brand
		}
		if req.CategoryID != nil {
			prod.CategoryID = *req.CategoryID
		}
		if req.Image != nil {
			prod.Image = *req.Image
		}
		if req.Features != nil {
			prod.Features = *req.Features
		}
		if req.IsActive != nil {
			prod.IsActive = *req.IsActive
		}
		if req.SortOrder != nil {
			prod.SortOrder = *req.SortOrder
		}

		if err := tx.Omit("Variants").Save(&prod).Error; err != nil {
			return err
		}

		if req.Variants != nil {
			if err := replaceVariants(tx, &prod, *req.Variants); err != nil {
				return err
			}
		}

		return tx.Preload("Variants").Where("id = ?", id).First(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func replaceVariants(tx *gorm.DB, prod *models.Product, reqs []transport.PatchVariantRequest) error {
	keep := make(map[uuid.UUID]bool, len(reqs))
	for _, v := range reqs {
		if v.ID != nil {
			keep[*v.ID] = true
		}
	}

	for _, existing := range prod.Variants {
		if !keep[existing.ID] {
			if err := tx.Delete(&models.Variant{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
		}
	}

	for _, v := range reqs {
		variant := models.Variant{
			ProductID: prod.ID,
			Size:      v.Size,
			Price:     v.Price,
			Stock:     v.Stock,
			SKU:       v.SKU,
		}
		if v.ID != nil && keep[*v.ID] {
			variant.ID = *v.ID
			if err := tx.Save(&variant).Error; err != nil {
				return err
			}
			continue
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct removes the product and its variants. Cart items referencing
// them are left in place on purpose; the cart read path nulls them out.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.Variant{}).Error
	})
}

func (r *GormRepo) CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}
