package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
)

func TestCreateCategoryDefaults(t *testing.T) {
	svc := &CategoryService{Repo: newTestRepo(t)}

	cat, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{
		Name: "Welding Machines",
	})
	require.NoError(t, err)
	assert.Equal(t, "welding-machines", cat.Slug)
	assert.True(t, cat.IsMain, "a category without a parent is a main category")
	assert.True(t, cat.IsActive)

	sub, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{
		Name:     "MIG Machines",
		ParentID: &cat.ID,
	})
	require.NoError(t, err)
	assert.False(t, sub.IsMain)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, cat.ID, *sub.ParentID)
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	svc := &CategoryService{Repo: newTestRepo(t)}

	missing := uuid.New()
	_, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{
		Name:     "Orphan",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCategoriesFilters(t *testing.T) {
	r := newTestRepo(t)
	svc := &CategoryService{Repo: r}

	main, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{Name: "Machines"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{
		Name: "MIG", ParentID: &main.ID,
	})
	require.NoError(t, err)

	mains, err := svc.GetCategories(context.Background(), repo.CategoryFilter{MainOnly: true})
	require.NoError(t, err)
	require.Len(t, mains, 1)
	assert.Equal(t, main.ID, mains[0].ID)

	subs, err := svc.GetCategories(context.Background(), repo.CategoryFilter{ParentSlug: "machines"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "MIG", subs[0].Name)

	none, err := svc.GetCategories(context.Background(), repo.CategoryFilter{ParentSlug: "no-such-slug"})
	require.NoError(t, err, "unknown parent slug is an empty list, not an error")
	assert.Empty(t, none)
}

func TestDeleteCategoryGuards(t *testing.T) {
	r := newTestRepo(t)
	svc := &CategoryService{Repo: r}

	main, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{Name: "Machines"})
	require.NoError(t, err)
	sub, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{
		Name: "MIG", ParentID: &main.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), main.ID)
	assert.ErrorIs(t, err, ErrValidation, "a category with subcategories cannot be deleted")

	require.NoError(t, svc.DeleteCategory(context.Background(), sub.ID))
	require.NoError(t, svc.DeleteCategory(context.Background(), main.ID))

	err = svc.DeleteCategory(context.Background(), main.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	r := newTestRepo(t)
	svc := &CategoryService{Repo: r}
	prod := seedProduct(t, r, "Stick Welder", 15000)

	err := svc.DeleteCategory(context.Background(), prod.CategoryID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPatchCategory(t *testing.T) {
	svc := &CategoryService{Repo: newTestRepo(t)}

	cat, err := svc.CreateCategory(context.Background(), transport.CreateCategoryRequest{Name: "Machines"})
	require.NoError(t, err)

	name := "Welding Machines"
	active := false
	patched, err := svc.PatchCategory(context.Background(), transport.PatchCategoryRequest{
		Name:     &name,
		IsActive: &active,
	}, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welding Machines", patched.Name)
	assert.False(t, patched.IsActive)
	assert.Equal(t, cat.Slug, patched.Slug, "unset fields are untouched")

	_, err = svc.PatchCategory(context.Background(), transport.PatchCategoryRequest{Name: &name}, uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
