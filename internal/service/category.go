package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) GetCategories(ctx context.Context, f repo.CategoryFilter) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx, f)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return cat, err
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	cat, err := s.Repo.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return cat, err
}

func (s *CategoryService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	if req.ParentID != nil {
		if _, err := s.Repo.GetCategory(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("parent category not found: %w", ErrNotFound)
			}
			return nil, err
		}
	}

	cat := models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		IsMain:      req.IsMain || req.ParentID == nil,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := s.Repo.CreateCategory(ctx, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *CategoryService) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uuid.UUID) (*models.Category, error) {
	cat, err := s.Repo.PatchCategory(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return cat, err
}

// DeleteCategory refuses to delete a category that still has subcategories or
// products; the admin has to move or delete those first.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	subs, err := s.Repo.CountSubcategories(ctx, id)
	if err != nil {
		return err
	}
	if subs > 0 {
		return fmt.Errorf("category has subcategories: %w", ErrValidation)
	}

	prods, err := s.Repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if prods > 0 {
		return fmt.Errorf("category has products: %w", ErrValidation)
	}

	err = s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
