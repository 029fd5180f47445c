package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/catalog"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createProduct(t *testing.T, repo *GormProductRepository, sku string, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}

func TestSaveAggregate_OptimisticLocking(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := createProduct(t, repo, "TEE-01", "100", 10)
	assert.Equal(t, 1, p.StoredVersion())

	first, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, first.Update("Renamed", "", decimal.NewFromInt(120)))
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 2, first.StoredVersion())

	require.NoError(t, second.Update("Stale", "", decimal.NewFromInt(90)))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.True(t, reloaded.Price.Equal(decimal.NewFromInt(120)))
}

func TestGormProductRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	tee := createProduct(t, repo, "tee-01", "100", 10)
	capProduct := createProduct(t, repo, "CAP-01", "50", 2)
	createProduct(t, repo, "SOCK_1", "15", 0)

	t.Run("find by sku is case-insensitive", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, " Tee-01 ")
		require.NoError(t, err)
		assert.Equal(t, tee.ID, found.ID)

		exists, err := repo.ExistsBySKU(ctx, "cap-01")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate sku is rejected", func(t *testing.T) {
		dup, err := catalog.NewProduct("TEE-01", "Duplicate", decimal.NewFromInt(1), 1)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("search and sort", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "cap"
		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, capProduct.ID, products[0].ID)

		filter = shared.DefaultFilter()
		filter.OrderBy = "price"
		filter.OrderDir = "asc"
		products, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "SOCK_1", products[0].SKU)

		count, err := repo.Count(ctx, shared.Filter{Search: "_"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "underscore must match literally")
	})

	t.Run("low stock", func(t *testing.T) {
		count, err := repo.CountLowStock(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("find by ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{tee.ID, capProduct.ID})
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_Stock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	tee := createProduct(t, repo, "TEE-01", "100", 5)
	capProduct := createProduct(t, repo, "CAP-01", "50", 1)

	t.Run("deducts every line", func(t *testing.T) {
		err := repo.DeductStock(ctx, []catalog.StockChange{
			{ProductID: tee.ID, Quantity: 2},
			{ProductID: tee.ID, Quantity: 1},
			{ProductID: capProduct.ID, Quantity: 1},
		})
		require.NoError(t, err)

		got, err := repo.FindByID(ctx, tee.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock)
	})

	t.Run("all or nothing", func(t *testing.T) {
		err := repo.DeductStock(ctx, []catalog.StockChange{
			{ProductID: tee.ID, Quantity: 1},
			{ProductID: capProduct.ID, Quantity: 1},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "CAP-01")

		got, err := repo.FindByID(ctx, tee.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock, "tee deduction must be rolled back")
	})

	t.Run("restore", func(t *testing.T) {
		require.NoError(t, repo.RestoreStock(ctx, []catalog.StockChange{{ProductID: capProduct.ID, Quantity: 3}}))
		got, err := repo.FindByID(ctx, capProduct.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock)
	})

	t.Run("unknown product", func(t *testing.T) {
		err := repo.DeductStock(ctx, []catalog.StockChange{{ProductID: uuid.New(), Quantity: 1}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		err := repo.DeductStock(ctx, []catalog.StockChange{{ProductID: tee.ID, Quantity: 0}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("stale aggregate after deduction conflicts", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, tee.ID)
		require.NoError(t, err)
		require.NoError(t, repo.DeductStock(ctx, []catalog.StockChange{{ProductID: tee.ID, Quantity: 1}}))
		require.NoError(t, stale.Update("Overwrite", "", stale.Price))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)
	})
}

func TestGormAdminAndUserRepository(t *testing.T) {
	db := newTestDB(t)
	admins := NewGormAdminRepository(db)
	users := NewGormUserRepository(db)
	ctx := context.Background()

	admin, err := identity.NewAdmin("Rina", "Rina@Shop.test", "secret123", identity.RoleManager)
	require.NoError(t, err)
	require.NoError(t, admins.Save(ctx, admin))

	found, err := admins.FindByEmail(ctx, "RINA@shop.test")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.True(t, found.VerifyPassword("secret123"))

	exists, err := admins.ExistsByEmail(ctx, "nobody@shop.test")
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := admins.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"role": string(identity.RoleManager)}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, admins.Delete(ctx, admin.ID))
	assert.ErrorIs(t, admins.Delete(ctx, admin.ID), shared.ErrNotFound)

	user, err := identity.NewUser("+62 812-3456-7890", "Budi")
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, user))

	byPhone, err := users.FindByPhone(ctx, "+6281234567890")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	require.NoError(t, byPhone.Block())
	require.NoError(t, users.Save(ctx, byPhone))

	count, err := users.Count(ctx, shared.Filter{Search: "bud", Filters: map[string]interface{}{"status": string(identity.UserStatusBlocked)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
