package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/servease/servease/catalog/internal/cache"
	"github.com/servease/servease/catalog/internal/otel"
	"github.com/servease/servease/catalog/pkg/request"
	"github.com/servease/servease/catalog/pkg/response"
	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inOtel "github.com/servease/servease/internal/otel"
	"github.com/servease/servease/internal/repository"
)

type CatalogService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewCatalogService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
) CatalogService {
	return CatalogService{pool: pool, queries: queries, cache: cache}
}

func (s CatalogService) InsertCategory(
	c context.Context,
	param request.Category,
) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CatalogService InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService InsertCategory").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting category").Logger()
	logger.Info().Msg("inserting category")
	row, err := s.queries.InsertCategory(c, repository.InsertCategoryParams{
		ID:          uuid.New(),
		Name:        param.Name,
		Description: textFrom(param.Description),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Str(constants.KEY_CATEGORY_ID, row.ID.String()).Msg("inserted category")

	s.invalidate(c, cache.KEY_CATEGORIES)

	return row.Response(), nil
}

func (s CatalogService) FindCategories(c context.Context) ([]response.Category, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindCategories").
		Str(constants.KEY_CACHE_KEY, cache.KEY_CATEGORIES).
		Logger()

	categories := []response.Category{}
	cached, err := s.cache.Get(c, cache.KEY_CATEGORIES).Result()
	if err == nil {
		if err = json.Unmarshal([]byte(cached), &categories); err == nil {
			logger.Trace().Msg("found categories in cache")
			return categories, nil
		}
		logger.Warn().Err(err).Msg("failed unmarshaling cached categories")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding categories in db").Logger()
	logger.Info().Msg("finding categories in db")
	rows, err := s.queries.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d categories", len(rows))

	for _, row := range rows {
		categories = append(categories, row.Response())
	}
	s.store(c, cache.KEY_CATEGORIES, categories, cache.TTL_CATEGORIES)

	return categories, nil
}

func (s CatalogService) InsertService(
	c context.Context,
	param request.Service,
) (response.Service, error) {
	c, span := otel.Tracer.Start(c, "CatalogService InsertService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService InsertService").
		Str(constants.KEY_CATEGORY_ID, param.CategoryId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding category").Logger()
	logger.Info().Msg("finding category")
	if _, err := s.queries.FindCategoryById(c, param.CategoryId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return response.Service{}, inErrors.ErrCategoryNotFound
		}
		err = fmt.Errorf("failed finding category with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}
	logger.Info().Msg("found category")

	prices, err := servicePrices(param)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting service").Logger()
	logger.Info().Msg("inserting service")
	row, err := s.queries.InsertService(c, repository.InsertServiceParams{
		ID:              uuid.New(),
		CategoryID:      param.CategoryId,
		Name:            param.Name,
		Description:     textFrom(param.Description),
		BasePrice:       prices.base,
		DiscountedPrice: prices.discounted,
		GstPercentage:   prices.gst,
		IsActive:        isActive(param.IsActive),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}
	logger.Info().Str(constants.KEY_SERVICE_ID, row.ID.String()).Msg("inserted service")

	s.invalidateServices(c, param.CategoryId)

	return row.Response(), nil
}

func (s CatalogService) FindServices(
	c context.Context,
	categoryId uuid.NullUUID,
) ([]response.Service, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindServices")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_SERVICES, "all")
	if categoryId.Valid {
		cacheKey = fmt.Sprintf(cache.KEY_SERVICES, categoryId.UUID.String())
	}

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindServices").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	services := []response.Service{}
	cached, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		if err = json.Unmarshal([]byte(cached), &services); err == nil {
			logger.Trace().Msg("found services in cache")
			return services, nil
		}
		logger.Warn().Err(err).Msg("failed unmarshaling cached services")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding services in db").Logger()
	logger.Info().Msg("finding services in db")
	rows, err := s.queries.FindServices(c, categoryId)
	if err != nil {
		err = fmt.Errorf("failed finding services with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d services", len(rows))

	for _, row := range rows {
		services = append(services, row.Response())
	}
	s.store(c, cacheKey, services, cache.TTL_SERVICES)

	return services, nil
}

func (s CatalogService) FindServiceById(
	c context.Context,
	id uuid.UUID,
) (response.Service, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindServiceById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindServiceById").
		Str(constants.KEY_SERVICE_ID, id.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding service").Logger()
	logger.Info().Msg("finding service")
	row, err := s.queries.FindServiceById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return response.Service{}, inErrors.ErrServiceNotFound
		}
		err = fmt.Errorf("failed finding service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}
	logger.Info().Msg("found service")

	return row.Response(), nil
}

func (s CatalogService) UpdateService(
	c context.Context,
	id uuid.UUID,
	param request.Service,
) (response.Service, error) {
	c, span := otel.Tracer.Start(c, "CatalogService UpdateService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService UpdateService").
		Str(constants.KEY_SERVICE_ID, id.String()).
		Logger()

	prices, err := servicePrices(param)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating service").Logger()
	logger.Info().Msg("updating service")
	row, err := s.queries.UpdateService(c, repository.UpdateServiceParams{
		ID:              id,
		Name:            param.Name,
		Description:     textFrom(param.Description),
		BasePrice:       prices.base,
		DiscountedPrice: prices.discounted,
		GstPercentage:   prices.gst,
		IsActive:        isActive(param.IsActive),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return response.Service{}, inErrors.ErrServiceNotFound
		}
		err = fmt.Errorf("failed updating service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Service{}, err
	}
	logger.Info().Msg("updated service")

	s.invalidateServices(c, row.CategoryID)

	return row.Response(), nil
}

func (s CatalogService) InsertCoupon(
	c context.Context,
	param request.Coupon,
) (response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CatalogService InsertCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService InsertCoupon").
		Str(constants.KEY_COUPON_CODE, param.Code).
		Logger()

	discountValue, err := decimal.NewFromString(param.DiscountValue)
	if err != nil {
		err = fmt.Errorf("failed parsing discountValue=%s with error=%w", param.DiscountValue, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	minimumOrderAmount := decimal.Zero
	if param.MinimumOrderAmount != "" {
		minimumOrderAmount, err = decimal.NewFromString(param.MinimumOrderAmount)
		if err != nil {
			err = fmt.Errorf(
				"failed parsing minimumOrderAmount=%s with error=%w",
				param.MinimumOrderAmount,
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Coupon{}, err
		}
	}
	maximumDiscountAmount := pgtype.Numeric{}
	if param.MaximumDiscountAmount != nil {
		d, err := decimal.NewFromString(*param.MaximumDiscountAmount)
		if err != nil {
			err = fmt.Errorf(
				"failed parsing maximumDiscountAmount=%s with error=%w",
				*param.MaximumDiscountAmount,
				err,
			)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Coupon{}, err
		}
		maximumDiscountAmount = repository.NumericFromDecimal(d)
	}
	usageLimit := pgtype.Int4{}
	if param.UsageLimit != nil {
		usageLimit = pgtype.Int4{Int32: *param.UsageLimit, Valid: true}
	}
	usageLimitPerUser := pgtype.Int4{}
	if param.UsageLimitPerUser != nil {
		usageLimitPerUser = pgtype.Int4{Int32: *param.UsageLimitPerUser, Valid: true}
	}
	applicableCategories := param.ApplicableCategories
	if applicableCategories == nil {
		applicableCategories = []uuid.UUID{}
	}
	applicableServices := param.ApplicableServices
	if applicableServices == nil {
		applicableServices = []uuid.UUID{}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting coupon").Logger()
	logger.Info().Msg("inserting coupon")
	row, err := s.queries.InsertCoupon(c, repository.InsertCouponParams{
		ID:                    uuid.New(),
		Code:                  param.Code,
		DiscountType:          param.DiscountType,
		DiscountValue:         repository.NumericFromDecimal(discountValue),
		MinimumOrderAmount:    repository.NumericFromDecimal(minimumOrderAmount),
		MaximumDiscountAmount: maximumDiscountAmount,
		ValidFrom:             pgtype.Timestamptz{Time: param.ValidFrom, Valid: true},
		ValidUntil:            pgtype.Timestamptz{Time: param.ValidUntil, Valid: true},
		UsageLimit:            usageLimit,
		UsageLimitPerUser:     usageLimitPerUser,
		FirstTimeUsersOnly:    param.FirstTimeUsersOnly,
		ApplicableCategories:  applicableCategories,
		ApplicableServices:    applicableServices,
		IsActive:              isActive(param.IsActive),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Coupon{}, err
	}
	logger.Info().Str(constants.KEY_COUPON_ID, row.ID.String()).Msg("inserted coupon")

	return row.Response(), nil
}

func (s CatalogService) FindCoupons(c context.Context) ([]response.Coupon, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CatalogService FindCoupons").
		Str(constants.KEY_PROCESS, "finding coupons").
		Logger()

	logger.Info().Msg("finding coupons")
	rows, err := s.queries.FindCoupons(c)
	if err != nil {
		err = fmt.Errorf("failed finding coupons with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d coupons", len(rows))

	coupons := make([]response.Coupon, len(rows))
	for i, row := range rows {
		coupons[i] = row.Response()
	}
	return coupons, nil
}

// store writes a listing into the cache, best effort.
func (s CatalogService) store(c context.Context, key string, value interface{}, ttl time.Duration) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_CACHE_KEY, key).
		Logger()

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Msg("failed marshaling cache value")
		return
	}
	if err := s.cache.Set(c, key, encoded, ttl).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed inserting cache value")
		return
	}
	logger.Trace().Msg("inserted cache value")
}

func (s CatalogService) invalidate(c context.Context, keys ...string) {
	logger := zerolog.Ctx(c).With().Strs("cacheKeys", keys).Logger()
	if err := s.cache.Del(c, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("failed invalidating cache keys")
		return
	}
	logger.Trace().Msg("invalidated cache keys")
}

func (s CatalogService) invalidateServices(c context.Context, categoryId uuid.UUID) {
	s.invalidate(
		c,
		fmt.Sprintf(cache.KEY_SERVICES, "all"),
		fmt.Sprintf(cache.KEY_SERVICES, categoryId.String()),
	)
}

type priceSet struct {
	base       pgtype.Numeric
	discounted pgtype.Numeric
	gst        pgtype.Numeric
}

func servicePrices(param request.Service) (priceSet, error) {
	base, err := decimal.NewFromString(param.BasePrice)
	if err != nil {
		return priceSet{}, fmt.Errorf(
			"failed parsing basePrice=%s with error=%w",
			param.BasePrice,
			err,
		)
	}
	gst, err := decimal.NewFromString(param.GstPercentage)
	if err != nil {
		return priceSet{}, fmt.Errorf(
			"failed parsing gstPercentage=%s with error=%w",
			param.GstPercentage,
			err,
		)
	}
	prices := priceSet{
		base: repository.NumericFromDecimal(base),
		gst:  repository.NumericFromDecimal(gst),
	}
	if param.DiscountedPrice != nil {
		discounted, err := decimal.NewFromString(*param.DiscountedPrice)
		if err != nil {
			return priceSet{}, fmt.Errorf(
				"failed parsing discountedPrice=%s with error=%w",
				*param.DiscountedPrice,
				err,
			)
		}
		prices.discounted = repository.NumericFromDecimal(discounted)
	}
	return prices, nil
}

func textFrom(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func isActive(flag *bool) bool {
	if flag == nil {
		return true
	}
	return *flag
}
