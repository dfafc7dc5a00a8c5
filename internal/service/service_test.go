package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: newTestDB(t)}
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt64(v int64) *int64     { return &v }

// seedProduct creates a category and a product with one variant per price
// given, returning the product with its variants loaded.
func seedProduct(t *testing.T, r *repo.GormRepo, name string, prices ...float64) *models.Product {
	t.Helper()

	cat := models.Category{Name: "Welding", Slug: "welding-" + uuid.NewString(), IsActive: true}
	require.NoError(t, r.DB.Create(&cat).Error)

	prod := models.Product{
		Name:       name,
		Slug:       Slugify(name) + "-" + uuid.NewString(),
		Brand:      "WeldMart",
		CategoryID: cat.ID,
		IsActive:   true,
	}
	for i, p := range prices {
		prod.Variants = append(prod.Variants, models.Variant{
			Size:  []string{"2.5mm", "3.2mm", "4.0mm"}[i%3],
			Price: ptrFloat(p),
			Stock: ptrInt64(100),
		})
	}
	require.NoError(t, r.DB.Create(&prod).Error)
	return &prod
}
