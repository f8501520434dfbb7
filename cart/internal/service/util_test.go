package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/servease/servease/internal/repository"
)

type (
	setupFunc    func(context.Context) (*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, CartService)
	teardownFunc func(*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer)
)

func setup(t *testing.T) setupFunc {
	return func(c context.Context) (*redis.Client, *pgxpool.Pool, *postgres.PostgresContainer, *testRedis.RedisContainer, *repository.Queries, CartService) {
		migrations := filepath.Join("..", "..", "..", "migrations")
		pgContainer, err := postgres.Run(
			c,
			"postgres:16.6-alpine3.21",
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.WithDatabase("postgres"),
			postgres.BasicWaitStrategies(),
			postgres.WithInitScripts(
				filepath.Join(migrations, "20250812093015_create_table_users.up.sql"),
				filepath.Join(migrations, "20250812093410_create_table_service_categories.up.sql"),
				filepath.Join(migrations, "20250812094122_create_table_services.up.sql"),
				filepath.Join(migrations, "20250812095301_create_table_cart_lines.up.sql"),
				filepath.Join(migrations, "20250812100247_create_table_coupons.up.sql"),
				filepath.Join(migrations, "20250812101133_create_table_applied_coupons.up.sql"),
				filepath.Join(migrations, "20250812101920_create_table_coupon_usages.up.sql"),
				filepath.Join(migrations, "20250812102514_create_table_orders.up.sql"),
			),
		)
		if err != nil {
			t.Fatalf("failed running postgres container with error: %s", err)
		}

		pgConnStr, err := pgContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting postgres connection string with error: %s", err)
		}
		pgConfig, err := pgxpool.ParseConfig(pgConnStr)
		if err != nil {
			t.Fatalf("failed parsing pgx config with error: %s", err)
		}
		pool, err := pgxpool.NewWithConfig(c, pgConfig)
		if err != nil {
			t.Fatalf("failed creating postgres pool with error: %s", err)
		}
		if err = pool.Ping(c); err != nil {
			t.Fatalf("failed ping postgres pool with error: %s", err)
		}

		redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
		if err != nil {
			t.Fatalf("failed running redis container with error: %s", err)
		}
		redisConnStr, err := redisContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting redis connection string with error: %s", err)
		}
		redisOpt, err := redis.ParseURL(redisConnStr)
		if err != nil {
			t.Fatalf("failed parsing redis connection string with error: %s", err)
		}
		redisClient := redis.NewClient(redisOpt)
		if err = redisClient.Ping(c).Err(); err != nil {
			t.Fatalf("failed ping redis client with error: %s", err)
		}

		queries := repository.New(pool)
		cartService := NewCartService(pool, queries, redisClient, decimal.NewFromInt(79))
		return redisClient, pool, pgContainer, redisContainer, queries, cartService
	}
}

func teardown(t *testing.T) teardownFunc {
	return func(redisClient *redis.Client, pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer, redisContainer *testRedis.RedisContainer) {
		redisClient.Close()
		pool.Close()
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

func seedCategory(t *testing.T, c context.Context, queries *repository.Queries, name string) repository.ServiceCategory {
	t.Helper()
	category, err := queries.InsertCategory(c, repository.InsertCategoryParams{
		ID:   uuid.New(),
		Name: name,
	})
	if err != nil {
		t.Fatalf("failed seeding category with error: %s", err)
	}
	return category
}

func seedService(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	categoryId uuid.UUID,
	name string,
	basePrice int64,
	gstPercentage int64,
) repository.Service {
	t.Helper()
	svc, err := queries.InsertService(c, repository.InsertServiceParams{
		ID:            uuid.New(),
		CategoryID:    categoryId,
		Name:          name,
		BasePrice:     repository.NumericFromDecimal(decimal.NewFromInt(basePrice)),
		GstPercentage: repository.NumericFromDecimal(decimal.NewFromInt(gstPercentage)),
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("failed seeding service with error: %s", err)
	}
	return svc
}

func seedCoupon(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	code string,
	discountType string,
	discountValue int64,
	minimumOrderAmount int64,
) repository.Coupon {
	t.Helper()
	now := time.Now()
	coupon, err := queries.InsertCoupon(c, repository.InsertCouponParams{
		ID:                   uuid.New(),
		Code:                 code,
		DiscountType:         discountType,
		DiscountValue:        repository.NumericFromDecimal(decimal.NewFromInt(discountValue)),
		MinimumOrderAmount:   repository.NumericFromDecimal(decimal.NewFromInt(minimumOrderAmount)),
		ValidFrom:            pgtype.Timestamptz{Time: now.Add(-time.Hour), Valid: true},
		ValidUntil:           pgtype.Timestamptz{Time: now.Add(time.Hour), Valid: true},
		ApplicableCategories: []uuid.UUID{},
		ApplicableServices:   []uuid.UUID{},
		IsActive:             true,
	})
	if err != nil {
		t.Fatalf("failed seeding coupon with error: %s", err)
	}
	return coupon
}
