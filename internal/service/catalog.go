package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/weldmart/storefront/internal/es"
	"github.com/weldmart/storefront/internal/events"
	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	ES       *elasticsearch.Client
	Producer *events.Producer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.Repo.GetProductBySlug(ctx, slug)
}

func (s *CatalogService) GetProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, f, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Brand == "" || req.CategoryID == uuid.Nil {
		return nil, fmt.Errorf("name, brand and category_id are required: %w", ErrValidation)
	}
	for _, v := range req.Variants {
		if v.Size == "" {
			return nil, fmt.Errorf("variant size is required: %w", ErrValidation)
		}
		if v.Price != nil && *v.Price < 0 {
			return nil, fmt.Errorf("variant price cannot be negative: %w", ErrValidation)
		}
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	prod := models.Product{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Brand:       req.Brand,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Features:    req.Features,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	for _, v := range req.Variants {
		prod.Variants = append(prod.Variants, models.Variant{
			Size:  v.Size,
			Price: v.Price,
			Stock: v.Stock,
			SKU:   v.SKU,
		})
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, &prod, "product_created")
	return &prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uuid.UUID) (*models.Product, error) {
	if req.Variants != nil {
		for _, v := range *req.Variants {
			if v.Size == "" {
				return nil, fmt.Errorf("variant size is required: %w", ErrValidation)
			}
			if v.Price != nil && *v.Price < 0 {
				return nil, fmt.Errorf("variant price cannot be negative: %w", ErrValidation)
			}
		}
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, prod, "product_updated")
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	l := logging.FromContext(ctx)
	if err := es.DeleteProductDoc(ctx, s.ES, id.String()); err != nil {
		l.Error("es delete failed", "product_id", id, "error", err)
	}
	s.publish(ctx, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []es.Hit, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	return es.SearchProducts(ctx, s.ES, query, from, size)
}

// afterWrite keeps the search index and the event stream in step with the
// catalog, best effort. Neither failure rolls back the write.
func (s *CatalogService) afterWrite(ctx context.Context, prod *models.Product, eventType string) {
	l := logging.FromContext(ctx)
	if err := es.IndexProduct(ctx, s.ES, prod); err != nil {
		l.Error("es index failed", "product_id", prod.ID, "error", err)
	}
	s.publish(ctx, map[string]any{
		"type":      eventType,
		"productID": prod.ID,
		"name":      prod.Name,
	})
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	key := fmt.Sprint(event["productID"])
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}

// Slugify lowercases and hyphenates a name into a URL slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
