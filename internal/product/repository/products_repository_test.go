package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
	"snackapp/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCatalogWhere(t *testing.T) {
	where, args := catalogWhere(domain.CatalogFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	active := true
	category := domain.CategoryBebida
	where, args = catalogWhere(domain.CatalogFilter{Active: &active, Category: &category})
	assert.Equal(t, " WHERE isActive = ? AND category = ?", where)
	assert.Equal(t, []any{true, "BEBIDA"}, args)
}

// Integration Tests

func TestRepository_SaveAndFindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	saved, err := repo.Save(context.Background(), domain.ProductDefinition{
		Name:        "X-Burger",
		Category:    domain.CategoryLanche,
		Price:       decimal.RequireFromString("18.50"),
		Description: "Pao, carne e queijo",
		Active:      true,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	found, err := repo.FindByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "X-Burger", found.Name)
	assert.Equal(t, domain.CategoryLanche, found.Category)
	assert.True(t, decimal.RequireFromString("18.50").Equal(found.Price))
	assert.True(t, found.Active)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	_, err := repo.FindByID(context.Background(), 9999)

	nfe, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product", nfe.Kind)
}

func TestRepository_FindByFiltersAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	burger, err := repo.Save(ctx, domain.ProductDefinition{Name: "X-Burger", Category: domain.CategoryLanche, Price: decimal.NewFromInt(18), Active: true})
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.ProductDefinition{Name: "Refrigerante", Category: domain.CategoryBebida, Price: decimal.NewFromInt(6), Active: true})
	require.NoError(t, err)

	burger.Active = false
	require.NoError(t, repo.Update(ctx, burger))

	all, err := repo.FindByFilters(ctx, domain.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := repo.FindByFilters(ctx, domain.CatalogFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "Refrigerante", onlyActive[0].Name)

	lanche := domain.CategoryLanche
	lanches, err := repo.FindByFilters(ctx, domain.CatalogFilter{Category: &lanche})
	require.NoError(t, err)
	require.Len(t, lanches, 1)
	assert.False(t, lanches[0].Active)
}

func TestAddOnRepository_SaveFindUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAddOnRepository(db)
	ctx := context.Background()

	bacon, err := repo.Save(ctx, domain.AddOnDefinition{Name: "Bacon", Category: domain.CategoryLanche, Price: decimal.RequireFromString("3.00"), Active: true})
	require.NoError(t, err)

	bacon.Price = decimal.RequireFromString("3.50")
	require.NoError(t, repo.Update(ctx, bacon))

	found, err := repo.FindByID(ctx, bacon.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.50").Equal(found.Price))

	_, err = repo.FindByID(ctx, bacon.ID+1000)
	nfe, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "add-on", nfe.Kind)
}
