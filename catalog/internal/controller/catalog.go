package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/servease/servease/catalog/internal/otel"
	"github.com/servease/servease/catalog/internal/service"
	"github.com/servease/servease/catalog/pkg/request"
	"github.com/servease/servease/internal/config"
	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inHttp "github.com/servease/servease/internal/http"
	"github.com/servease/servease/internal/middleware"
	inOtel "github.com/servease/servease/internal/otel"
	"github.com/servease/servease/internal/validate"
)

type CatalogController struct {
	service *service.CatalogService
}

// AttachCatalogController wires the catalog routes. Reads are public,
// writes require a valid bearer token.
func AttachCatalogController(
	router *mux.Router,
	service *service.CatalogService,
	cfg config.Application,
) {
	controller := CatalogController{service: service}

	router.HandleFunc("/categories", controller.FindCategories).Methods(http.MethodGet)
	router.HandleFunc("/services", controller.FindServices).Methods(http.MethodGet)
	router.HandleFunc("/services/{serviceId}", controller.FindServiceById).Methods(http.MethodGet)

	writes := router.NewRoute().Subrouter()
	writes.Use(middleware.Auth(cfg))
	writes.HandleFunc("/categories", controller.InsertCategory).Methods(http.MethodPost)
	writes.HandleFunc("/services", controller.InsertService).Methods(http.MethodPost)
	writes.HandleFunc("/services/{serviceId}", controller.UpdateService).Methods(http.MethodPut)
	writes.HandleFunc("/coupons", controller.FindCoupons).Methods(http.MethodGet)
	writes.HandleFunc("/coupons", controller.InsertCoupon).Methods(http.MethodPost)
}

func (t CatalogController) InsertCategory(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController InsertCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController InsertCategory").
		Logger()

	reqBody := request.Category{}
	if !decodeAndValidate(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting category").Logger()
	logger.Info().Msg("inserting category")
	c = logger.WithContext(c)
	category, err := t.service.InsertCategory(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("inserted category")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "inserted category",
		"data": map[string]interface{}{
			"category": category,
		},
	})
}

func (t CatalogController) FindCategories(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	c = logger.WithContext(c)
	categories, err := t.service.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found categories")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found categories",
		"data": map[string]interface{}{
			"categories": categories,
		},
	})
}

func (t CatalogController) InsertService(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController InsertService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController InsertService").
		Logger()

	reqBody := request.Service{}
	if !decodeAndValidate(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "inserting service").
		Str(constants.KEY_CATEGORY_ID, reqBody.CategoryId.String()).
		Logger()
	logger.Info().Msg("inserting service")
	c = logger.WithContext(c)
	svc, err := t.service.InsertService(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting service with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("inserted service")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "inserted service",
		"data": map[string]interface{}{
			"service": svc,
		},
	})
}

func (t CatalogController) FindServices(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindServices")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindServices").
		Logger()

	categoryId := uuid.NullUUID{}
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			err = fmt.Errorf("failed validating categoryId=%s with error=%w", raw, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			writeFailed(c, w, http.StatusBadRequest, err.Error())
			return
		}
		categoryId = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding services").Logger()
	logger.Info().Msg("finding services")
	c = logger.WithContext(c)
	services, err := t.service.FindServices(c, categoryId)
	if err != nil {
		err = fmt.Errorf("failed finding services with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found services")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found services",
		"data": map[string]interface{}{
			"services": services,
		},
	})
}

func (t CatalogController) FindServiceById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindServiceById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindServiceById").
		Logger()

	pathValues := mux.Vars(r)
	serviceId, err := uuid.Parse(pathValues["serviceId"])
	if err != nil {
		err = fmt.Errorf("failed validating serviceId=%s with error=%w", pathValues["serviceId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(constants.KEY_SERVICE_ID, serviceId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding service").Logger()
	logger.Info().Msg("finding service")
	c = logger.WithContext(c)
	svc, err := t.service.FindServiceById(c, serviceId)
	if err != nil {
		err = fmt.Errorf("failed finding serviceId=%s with error=%w", serviceId.String(), err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found service")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found service",
		"data": map[string]interface{}{
			"service": svc,
		},
	})
}

func (t CatalogController) UpdateService(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController UpdateService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController UpdateService").
		Logger()

	pathValues := mux.Vars(r)
	serviceId, err := uuid.Parse(pathValues["serviceId"])
	if err != nil {
		err = fmt.Errorf("failed validating serviceId=%s with error=%w", pathValues["serviceId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(constants.KEY_SERVICE_ID, serviceId.String()).Logger()

	reqBody := request.Service{}
	if !decodeAndValidate(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating service").Logger()
	logger.Info().Msg("updating service")
	c = logger.WithContext(c)
	svc, err := t.service.UpdateService(c, serviceId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating serviceId=%s with error=%w", serviceId.String(), err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated service")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated service",
		"data": map[string]interface{}{
			"service": svc,
		},
	})
}

func (t CatalogController) InsertCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController InsertCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController InsertCoupon").
		Logger()

	reqBody := request.Coupon{}
	if !decodeAndValidate(c, w, r, span, logger, &reqBody) {
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "inserting coupon").
		Str(constants.KEY_COUPON_CODE, reqBody.Code).
		Logger()
	logger.Info().Msg("inserting coupon")
	c = logger.WithContext(c)
	coupon, err := t.service.InsertCoupon(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting couponCode=%s with error=%w", reqBody.Code, err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("inserted coupon")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "inserted coupon",
		"data": map[string]interface{}{
			"coupon": coupon,
		},
	})
}

func (t CatalogController) FindCoupons(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindCoupons")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CatalogController FindCoupons").
		Str(constants.KEY_PROCESS, "finding coupons").
		Logger()

	logger.Info().Msg("finding coupons")
	c = logger.WithContext(c)
	coupons, err := t.service.FindCoupons(c)
	if err != nil {
		err = fmt.Errorf("failed finding coupons with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found coupons")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found coupons",
		"data": map[string]interface{}{
			"coupons": coupons,
		},
	})
}

func decodeAndValidate(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	logger zerolog.Logger,
	reqBody interface{},
) bool {
	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return false
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	if err := validate.New().StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return false
	}
	logger.Info().Msg("validated request body")

	return true
}

func writeError(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
	err error,
) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())

	switch {
	case errors.Is(err, inErrors.ErrServiceNotFound),
		errors.Is(err, inErrors.ErrCategoryNotFound),
		errors.Is(err, inErrors.ErrCouponNotFound):
		writeFailed(c, w, http.StatusNotFound, err.Error())
	default:
		writeFailed(c, w, http.StatusInternalServerError, err.Error())
	}
}

func writeFailed(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    message,
	})
}
