package services

import (
	"context"
	"testing"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBySlug_UsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := newFakeCache()
	svc := NewStoreService(f.repos, cache, 0)

	store, err := svc.FindBySlug(ctx, "bistro")
	require.NoError(t, err)
	assert.Equal(t, f.store.ID, store.ID)
	assert.Equal(t, 0, cache.hits)
	assert.Contains(t, cache.stores, "bistro")

	_, err = svc.FindBySlug(ctx, " bistro ")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.FindBySlug(ctx, "nowhere")
	assert.True(t, IsKind(err, KindNotFound))

	_, err = svc.FindBySlug(ctx, "")
	assert.True(t, IsKind(err, KindValidation))
}

func TestStoreUpdate_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := newFakeCache()
	svc := NewStoreService(f.repos, cache, 0)

	_, err := svc.FindBySlug(ctx, "bistro")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, f.owner, StoreInput{Name: "Bistro Central", Slug: "Bistro-Central"})
	require.NoError(t, err)
	assert.Equal(t, "bistro-central", updated.Slug)
	assert.Equal(t, []string{"bistro", "bistro-central"}, cache.deletes)

	_, err = svc.FindBySlug(ctx, "bistro")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestStoreCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stores.Create(ctx, f.owner, StoreInput{Name: "Second", Slug: "second"})
	assert.True(t, IsKind(err, KindConflict), "one store per account")

	_, err = f.stores.Create(ctx, f.admin, StoreInput{Name: "Taken", Slug: "bistro"})
	assert.True(t, IsKind(err, KindConflict), "slug taken")

	_, err = f.stores.Create(ctx, f.admin, StoreInput{Name: "Bad", Slug: "not a slug"})
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.stores.Create(ctx, f.admin, StoreInput{Slug: "no-name"})
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.stores.Create(ctx, nil, StoreInput{Name: "Anon", Slug: "anon"})
	assert.True(t, IsKind(err, KindUnauthorized))

	store, err := f.stores.Create(ctx, f.admin, StoreInput{Name: "Cantina", Slug: "cantina", MpesaPhone: "841234567"})
	require.NoError(t, err)
	assert.Equal(t, f.admin.UserID, store.UserID)
	assert.Equal(t, "841234567", store.MpesaPhone)

	mine, err := f.stores.Mine(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, store.ID, mine.ID)
}

func TestStoreMine_NoStore(t *testing.T) {
	f := newFixture(t)
	_, err := f.stores.Mine(context.Background(), &auth.Principal{UserID: 999, Role: models.RoleOwner})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	drinks := &models.Category{StoreID: f.store.ID, Name: "Drinks", OrderPosition: 0}
	require.NoError(t, f.repos.Categories.Create(ctx, drinks))
	require.NoError(t, f.repos.Products.Create(ctx, &models.Product{
		StoreID: f.store.ID, CategoryID: drinks.ID, Name: "Sumo", Price: decimal.NewFromInt(40), IsAvailable: true,
	}))
	require.NoError(t, f.repos.Products.Create(ctx, &models.Product{
		StoreID: f.store.ID, CategoryID: drinks.ID, Name: "Esgotado", Price: decimal.NewFromInt(40), IsAvailable: false,
	}))
	empty := &models.Category{StoreID: f.store.ID, Name: "Desserts", OrderPosition: 5}
	require.NoError(t, f.repos.Categories.Create(ctx, empty))

	menu, err := f.stores.Menu(ctx, "bistro")
	require.NoError(t, err)
	assert.Equal(t, "bistro", menu.Store.Slug)
	require.Len(t, menu.Categories, 3)

	assert.Equal(t, "Drinks", menu.Categories[0].Name)
	require.Len(t, menu.Categories[0].Products, 1)
	assert.Equal(t, "Sumo", menu.Categories[0].Products[0].Name)
	assert.Equal(t, "Mains", menu.Categories[1].Name)
	assert.NotNil(t, menu.Categories[2].Products)
	assert.Empty(t, menu.Categories[2].Products)
}

func TestPublicTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Tables.Create(ctx, &models.Table{StoreID: f.store.ID, Number: 1, IsActive: false}))

	all, err := f.stores.PublicTables(ctx, "bistro", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.stores.PublicTables(ctx, "bistro", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 3, active[0].Number)
}
