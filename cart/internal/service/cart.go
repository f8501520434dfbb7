package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/servease/servease/cart/internal/cache"
	"github.com/servease/servease/cart/internal/coupon"
	"github.com/servease/servease/cart/internal/otel"
	"github.com/servease/servease/cart/internal/pricing"
	"github.com/servease/servease/cart/pkg/request"
	"github.com/servease/servease/cart/pkg/response"
	catalogResponse "github.com/servease/servease/catalog/pkg/response"
	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	"github.com/servease/servease/internal/identity"
	inOtel "github.com/servease/servease/internal/otel"
	"github.com/servease/servease/internal/repository"
)

type CartService struct {
	pool        *pgxpool.Pool
	queries     *repository.Queries
	cache       *redis.Client
	categoryFee decimal.Decimal
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	categoryFee decimal.Decimal,
) CartService {
	return CartService{pool: pool, queries: queries, cache: cache, categoryFee: categoryFee}
}

func (s CartService) FindCart(
	c context.Context,
	principal identity.Principal,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService FindCart").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Logger()
	c = logger.WithContext(c)

	return s.snapshot(c, principal)
}

func (s CartService) AddLine(
	c context.Context,
	principal identity.Principal,
	param request.AddCartLine,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService AddLine").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Str(constants.KEY_SERVICE_ID, param.ServiceId.String()).
		Int32(constants.KEY_QUANTITY, param.Quantity).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "finding service in catalog").Logger()
	logger.Info().Msg("finding service in catalog")
	svc, err := s.findService(c, param.ServiceId)
	if err != nil {
		err = fmt.Errorf(
			"failed finding serviceId=%s in catalog with error=%w",
			param.ServiceId.String(),
			err,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found service in catalog")

	// Price is snapshotted onto the line; later catalog price changes
	// must not alter lines already in the cart.
	unitPrice := svc.BasePrice
	if svc.DiscountedPrice != nil {
		unitPrice = *svc.DiscountedPrice
	}

	variantId := uuid.NullUUID{}
	if param.VariantId != nil {
		variantId = uuid.NullUUID{UUID: *param.VariantId, Valid: true}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "merging cart line").Logger()
	logger.Info().Msg("finding existing line for service and variant")
	existing, err := s.queries.FindCartLineByOwnerAndService(
		c,
		repository.FindCartLineByOwnerAndServiceParams{
			OwnerKind: string(principal.Kind),
			OwnerID:   principal.Owner(),
			ServiceID: param.ServiceId,
			VariantID: variantId,
		},
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding existing cart line with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	if err == nil {
		logger.Info().
			Str(constants.KEY_CART_LINE_ID, existing.ID.String()).
			Msg("line exists, incrementing quantity")
		_, err = s.queries.AddCartLineQuantity(c, repository.AddCartLineQuantityParams{
			ID:        existing.ID,
			OwnerKind: string(principal.Kind),
			OwnerID:   principal.Owner(),
			Quantity:  param.Quantity,
		})
		if err != nil {
			err = fmt.Errorf("failed incrementing cart line quantity with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("incremented quantity on existing line")
		return s.snapshot(c, principal)
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart line").Logger()
	logger.Info().Msg("inserting cart line")
	inserted, err := s.queries.InsertCartLine(c, repository.InsertCartLineParams{
		ID:         uuid.New(),
		OwnerKind:  string(principal.Kind),
		OwnerID:    principal.Owner(),
		ServiceID:  param.ServiceId,
		VariantID:  variantId,
		CategoryID: svc.CategoryId,
		Quantity:   param.Quantity,
		UnitPrice:  repository.NumericFromDecimal(unitPrice),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting cart line with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().
		Str(constants.KEY_CART_LINE_ID, inserted.ID.String()).
		Msg("inserted cart line")

	return s.snapshot(c, principal)
}

func (s CartService) UpdateLine(
	c context.Context,
	principal identity.Principal,
	lineId uuid.UUID,
	param request.UpdateCartLine,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService UpdateLine").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Str(constants.KEY_CART_LINE_ID, lineId.String()).
		Int32(constants.KEY_QUANTITY, param.Quantity).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart line quantity").Logger()
	logger.Info().Msg("updating cart line quantity")
	affected, err := s.queries.UpdateCartLineQuantity(c, repository.UpdateCartLineQuantityParams{
		ID:        lineId,
		OwnerKind: string(principal.Kind),
		OwnerID:   principal.Owner(),
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed updating cart line quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if affected == 0 {
		err = fmt.Errorf(
			"failed updating cartLineId=%s with error=%w",
			lineId.String(),
			inErrors.ErrCartLineNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, inErrors.ErrCartLineNotFound
	}
	logger.Info().Msg("updated cart line quantity")

	return s.snapshot(c, principal)
}

func (s CartService) RemoveLine(
	c context.Context,
	principal identity.Principal,
	lineId uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService RemoveLine").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Str(constants.KEY_CART_LINE_ID, lineId.String()).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart line").Logger()
	logger.Info().Msg("deleting cart line")
	affected, err := s.queries.DeleteCartLine(c, repository.DeleteCartLineParams{
		ID:        lineId,
		OwnerKind: string(principal.Kind),
		OwnerID:   principal.Owner(),
	})
	if err != nil {
		err = fmt.Errorf("failed deleting cart line with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if affected == 0 {
		err = fmt.Errorf(
			"failed deleting cartLineId=%s with error=%w",
			lineId.String(),
			inErrors.ErrCartLineNotFound,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, inErrors.ErrCartLineNotFound
	}
	logger.Info().Msg("deleted cart line")

	return s.snapshot(c, principal)
}

func (s CartService) Clear(
	c context.Context,
	principal identity.Principal,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService Clear").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("initialized transaction")
	defer func(lg zerolog.Logger) {
		l := lg.With().Str(constants.KEY_PROCESS, "rolling back transaction").Logger()
		if err := tx.Rollback(c); err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			l.Error().Err(err).Msg(err.Error())
			return
		}
		l.Info().Msg("rolled back transaction")
	}(logger)

	queries := s.queries.WithTx(tx)
	owner := repository.DeleteCartLinesByOwnerParams{
		OwnerKind: string(principal.Kind),
		OwnerID:   principal.Owner(),
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart lines").Logger()
	logger.Info().Msg("deleting cart lines")
	deleted, err := queries.DeleteCartLinesByOwner(c, owner)
	if err != nil {
		err = fmt.Errorf("failed deleting cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("deleted %d cart lines", deleted)

	// An empty cart cannot satisfy a coupon minimum, drop the coupon
	// together with the lines.
	logger = logger.With().Str(constants.KEY_PROCESS, "deleting applied coupon").Logger()
	logger.Info().Msg("deleting applied coupon")
	_, err = queries.DeleteAppliedCouponByOwner(
		c,
		repository.DeleteAppliedCouponByOwnerParams(owner),
	)
	if err != nil {
		err = fmt.Errorf("failed deleting applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted applied coupon")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	return s.snapshot(c, principal)
}

func (s CartService) ApplyCoupon(
	c context.Context,
	principal identity.Principal,
	param request.ApplyCoupon,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService ApplyCoupon").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Str(constants.KEY_COUPON_CODE, param.Code).
		Logger()
	c = logger.WithContext(c)

	owner := repository.FindCartLineDetailsByOwnerParams{
		OwnerKind: string(principal.Kind),
		OwnerID:   principal.Owner(),
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart lines").Logger()
	logger.Info().Msg("finding cart lines")
	rows, err := s.queries.FindCartLineDetailsByOwner(c, owner)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("found %d cart lines", len(rows))

	subtotal := decimal.Zero
	categoryIds := make([]uuid.UUID, 0, len(rows))
	serviceIds := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		unitPrice := repository.DecimalFromNumeric(row.UnitPrice)
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt32(row.Quantity)))
		categoryIds = append(categoryIds, row.CategoryID)
		serviceIds = append(serviceIds, row.ServiceID)
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding coupon by code").Logger()
	logger.Info().Msg("finding coupon by code")
	row, err := s.queries.FindCouponByCode(c, param.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unknown codes get the same rejection as expired ones, the
			// response must not reveal which codes exist.
			logger.Info().Msg("coupon code does not exist")
			return response.Cart{}, s.rejectCoupon(
				c,
				principal,
				span,
				&coupon.Rejection{Reason: coupon.ReasonInvalidOrExpired},
			)
		}
		err = fmt.Errorf("failed finding coupon by code with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(constants.KEY_COUPON_ID, row.ID.String()).Logger()
	logger.Info().Msg("found coupon by code")

	evalCtx := coupon.Context{
		Now:         time.Now(),
		OrderAmount: subtotal,
		CategoryIds: categoryIds,
		ServiceIds:  serviceIds,
		UserKnown:   principal.Known(),
	}
	if principal.Known() {
		logger = logger.With().Str(constants.KEY_PROCESS, "counting usage history").Logger()
		logger.Info().Msg("counting orders by user")
		orderCount, err := s.queries.CountOrdersByUser(c, principal.UserID)
		if err != nil {
			err = fmt.Errorf("failed counting orders by user with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		evalCtx.FirstTimeUser = orderCount == 0

		logger.Info().Msg("counting coupon usages by user")
		usageCount, err := s.queries.CountCouponUsagesByUser(
			c,
			repository.CountCouponUsagesByUserParams{CouponID: row.ID, UserID: principal.UserID},
		)
		if err != nil {
			err = fmt.Errorf("failed counting coupon usages by user with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		evalCtx.UserUsageCount = usageCount
		logger.Info().
			Int64("orderCount", orderCount).
			Int64("usageCount", usageCount).
			Msg("counted usage history")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "evaluating coupon").Logger()
	logger.Info().Msg("evaluating coupon")
	discount, err := coupon.Evaluate(couponFromRow(row), evalCtx)
	if err != nil {
		rejection := &coupon.Rejection{}
		if errors.As(err, &rejection) {
			logger.Info().Str("reason", string(rejection.Reason)).Msg("coupon rejected")
			return response.Cart{}, s.rejectCoupon(c, principal, span, rejection)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(constants.KEY_DISCOUNT_AMOUNT, discount.String()).Logger()
	logger.Info().Msg("evaluated coupon")

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting applied coupon").Logger()
	logger.Info().Msg("upserting applied coupon")
	_, err = s.queries.UpsertAppliedCoupon(c, repository.UpsertAppliedCouponParams{
		OwnerKind:      string(principal.Kind),
		OwnerID:        principal.Owner(),
		Code:           row.Code,
		DiscountAmount: repository.NumericFromDecimal(discount),
	})
	if err != nil {
		err = fmt.Errorf("failed upserting applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("upserted applied coupon")

	return s.snapshot(c, principal)
}

func (s CartService) RemoveCoupon(
	c context.Context,
	principal identity.Principal,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService RemoveCoupon").
		Str(constants.KEY_PRINCIPAL, principal.String()).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting applied coupon").Logger()
	logger.Info().Msg("deleting applied coupon")
	affected, err := s.queries.DeleteAppliedCouponByOwner(
		c,
		repository.DeleteAppliedCouponByOwnerParams{
			OwnerKind: string(principal.Kind),
			OwnerID:   principal.Owner(),
		},
	)
	if err != nil {
		err = fmt.Errorf("failed deleting applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if affected == 0 {
		err = fmt.Errorf("failed deleting applied coupon with error=%w", inErrors.ErrCouponNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, inErrors.ErrCouponNotFound
	}
	logger.Info().Msg("deleted applied coupon")

	return s.snapshot(c, principal)
}

// rejectCoupon drops any previously applied coupon before reporting the
// rejection, so a failed apply never leaves a stale discount behind.
func (s CartService) rejectCoupon(
	c context.Context,
	principal identity.Principal,
	span trace.Span,
	rejection *coupon.Rejection,
) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "deleting previously applied coupon").
		Logger()

	logger.Info().Msg("deleting previously applied coupon")
	_, err := s.queries.DeleteAppliedCouponByOwner(
		c,
		repository.DeleteAppliedCouponByOwnerParams{
			OwnerKind: string(principal.Kind),
			OwnerID:   principal.Owner(),
		},
	)
	if err != nil {
		err = fmt.Errorf("failed deleting previously applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted previously applied coupon")

	return rejection
}

// snapshot recomputes the cart from storage. The applied coupon is
// expired lazily here, there is no background sweep.
func (s CartService) snapshot(
	c context.Context,
	principal identity.Principal,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService snapshot")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService snapshot").
		Logger()

	owner := repository.FindCartLineDetailsByOwnerParams{
		OwnerKind: string(principal.Kind),
		OwnerID:   principal.Owner(),
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart lines").Logger()
	logger.Trace().Msg("finding cart lines")
	rows, err := s.queries.FindCartLineDetailsByOwner(c, owner)
	if err != nil {
		err = fmt.Errorf("failed finding cart lines with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msgf("found %d cart lines", len(rows))

	discount := decimal.Zero
	appliedCode := ""
	logger = logger.With().Str(constants.KEY_PROCESS, "finding applied coupon").Logger()
	logger.Trace().Msg("finding applied coupon")
	applied, err := s.queries.FindAppliedCouponByOwner(
		c,
		repository.FindAppliedCouponByOwnerParams(owner),
	)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		err = fmt.Errorf("failed finding applied coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	case time.Since(applied.AppliedAt.Time) > coupon.AppliedLifetime:
		logger.Info().
			Str(constants.KEY_COUPON_CODE, applied.Code).
			Time("appliedAt", applied.AppliedAt.Time).
			Msg("applied coupon expired, deleting")
		_, err = s.queries.DeleteAppliedCouponByOwner(
			c,
			repository.DeleteAppliedCouponByOwnerParams(owner),
		)
		if err != nil {
			err = fmt.Errorf("failed deleting expired applied coupon with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
		logger.Info().Msg("deleted expired applied coupon")
	default:
		discount = repository.DecimalFromNumeric(applied.DiscountAmount)
		appliedCode = applied.Code
	}

	lines := make([]pricing.Line, len(rows))
	responseLines := make([]response.CartLine, len(rows))
	for i, row := range rows {
		lines[i] = pricing.Line{
			CategoryId:    row.CategoryID,
			UnitPrice:     repository.DecimalFromNumeric(row.UnitPrice),
			GstPercentage: repository.DecimalFromNumeric(row.GstPercentage),
			Quantity:      row.Quantity,
		}
		responseLines[i] = row.Response()
	}

	breakdown := pricing.Compute(lines, discount, s.categoryFee)
	snapshot := response.Cart{
		Lines:               responseLines,
		TotalItems:          breakdown.TotalItems,
		Subtotal:            breakdown.Subtotal,
		DiscountAmount:      breakdown.DiscountAmount,
		GstAmount:           breakdown.GstAmount,
		ServiceChargeAmount: breakdown.ServiceChargeAmount,
		FinalAmount:         breakdown.FinalAmount,
		AppliedCouponCode:   appliedCode,
	}
	logger.Trace().
		Str(constants.KEY_FINAL_AMOUNT, breakdown.FinalAmount.String()).
		Msg("computed cart snapshot")

	return snapshot, nil
}

// findService resolves a catalog service through the cache. Inactive
// services are reported as not found.
func (s CartService) findService(
	c context.Context,
	serviceId uuid.UUID,
) (catalogResponse.Service, error) {
	c, span := otel.Tracer.Start(c, "CartService findService")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_SERVICES, serviceId.String())

	logger := zerolog.Ctx(c).
		With().
		Ctx(c).
		Str(constants.KEY_TAG, "CartService findService").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding service in cache").Logger()
	logger.Trace().Msg("finding service in cache")
	cached, err := s.cache.Get(c, cacheKey).Result()
	if err == nil {
		svc := catalogResponse.Service{}
		if err = json.Unmarshal([]byte(cached), &svc); err == nil {
			logger.Trace().Msg("found service in cache")
			if !svc.IsActive {
				return catalogResponse.Service{}, inErrors.ErrServiceNotFound
			}
			return svc, nil
		}
		err = fmt.Errorf("failed unmarshaling cached service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else if !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed finding service in cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding service in db").Logger()
	logger.Info().Msg("finding service in db")
	row, err := s.queries.FindServiceById(c, serviceId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalogResponse.Service{}, inErrors.ErrServiceNotFound
		}
		err = fmt.Errorf("failed finding service in db with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return catalogResponse.Service{}, err
	}
	logger.Info().Msg("found service in db")
	svc := row.Response()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting service to cache").Logger()
	logger.Trace().Msg("inserting service to cache")
	svcJson, err := json.Marshal(svc)
	if err != nil {
		err = fmt.Errorf("failed marshaling service with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return catalogResponse.Service{}, err
	}
	if err = s.cache.Set(c, cacheKey, svcJson, cache.TTL_SERVICES).Err(); err != nil {
		// cache is best effort, the db row is already in hand
		err = fmt.Errorf("failed inserting service to cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("inserted service to cache")
	}

	if !svc.IsActive {
		return catalogResponse.Service{}, inErrors.ErrServiceNotFound
	}
	return svc, nil
}

func couponFromRow(row repository.Coupon) coupon.Coupon {
	var maxDiscount *decimal.Decimal
	if row.MaximumDiscountAmount.Valid {
		d := repository.DecimalFromNumeric(row.MaximumDiscountAmount)
		maxDiscount = &d
	}
	var usageLimit, usageLimitPerUser *int32
	if row.UsageLimit.Valid {
		usageLimit = &row.UsageLimit.Int32
	}
	if row.UsageLimitPerUser.Valid {
		usageLimitPerUser = &row.UsageLimitPerUser.Int32
	}
	return coupon.Coupon{
		ID:                    row.ID,
		Code:                  row.Code,
		DiscountType:          coupon.Type(row.DiscountType),
		DiscountValue:         repository.DecimalFromNumeric(row.DiscountValue),
		MinimumOrderAmount:    repository.DecimalFromNumeric(row.MinimumOrderAmount),
		MaximumDiscountAmount: maxDiscount,
		ValidFrom:             row.ValidFrom.Time,
		ValidUntil:            row.ValidUntil.Time,
		UsageLimit:            usageLimit,
		UsageLimitPerUser:     usageLimitPerUser,
		UsageCount:            row.UsageCount,
		FirstTimeUsersOnly:    row.FirstTimeUsersOnly,
		ApplicableCategories:  row.ApplicableCategories,
		ApplicableServices:    row.ApplicableServices,
		IsActive:              row.IsActive,
	}
}
