package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/servease/servease/cart/internal/coupon"
	"github.com/servease/servease/cart/internal/otel"
	"github.com/servease/servease/cart/internal/service"
	"github.com/servease/servease/cart/pkg/request"
	"github.com/servease/servease/cart/pkg/response"
	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inHttp "github.com/servease/servease/internal/http"
	"github.com/servease/servease/internal/identity"
	inOtel "github.com/servease/servease/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, service *service.CartService) {
	controller := CartController{service: service}

	r := router.PathPrefix("/carts").Subrouter()
	r.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	r.HandleFunc("", controller.Clear).Methods(http.MethodDelete)
	r.HandleFunc("/items", controller.AddLine).Methods(http.MethodPost)
	r.HandleFunc("/items/{cartLineId}", controller.UpdateLine).Methods(http.MethodPut)
	r.HandleFunc("/items/{cartLineId}", controller.RemoveLine).Methods(http.MethodDelete)
	r.HandleFunc("/coupon", controller.ApplyCoupon).Methods(http.MethodPost)
	r.HandleFunc("/coupon", controller.RemoveCoupon).Methods(http.MethodDelete)
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FindCart").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := t.service.FindCart(c, principal)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found cart")

	writeCart(c, w, "found cart", cart)
}

func (t CartController) AddLine(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddLine").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddCartLine{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "adding cart line").
		Str(constants.KEY_SERVICE_ID, reqBody.ServiceId.String()).
		Logger()
	logger.Info().Msg("adding cart line")
	c = logger.WithContext(c)
	cart, err := t.service.AddLine(c, principal, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding cart line with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("added cart line")

	writeCart(c, w, "added cart line", cart)
}

func (t CartController) UpdateLine(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateLine").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "validating cartLineId").Logger()
	logger.Info().Msg("validating cartLineId")
	pathValues := mux.Vars(r)
	lineId, err := uuid.Parse(pathValues["cartLineId"])
	if err != nil {
		err = fmt.Errorf("failed validating cartLineId=%s with error=%w", pathValues["cartLineId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger = logger.With().Str(constants.KEY_CART_LINE_ID, lineId.String()).Logger()
	logger.Info().Msgf("validated cartLineId=%s", lineId.String())

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.UpdateCartLine{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart line").Logger()
	logger.Info().Msg("updating cart line")
	c = logger.WithContext(c)
	cart, err := t.service.UpdateLine(c, principal, lineId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating cartLineId=%s with error=%w", lineId.String(), err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated cart line")

	writeCart(c, w, "updated cart line", cart)
}

func (t CartController) RemoveLine(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveLine")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveLine").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "validating cartLineId").Logger()
	logger.Info().Msg("validating cartLineId")
	pathValues := mux.Vars(r)
	lineId, err := uuid.Parse(pathValues["cartLineId"])
	if err != nil {
		err = fmt.Errorf("failed validating cartLineId=%s with error=%w", pathValues["cartLineId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger = logger.With().Str(constants.KEY_CART_LINE_ID, lineId.String()).Logger()
	logger.Info().Msgf("validated cartLineId=%s", lineId.String())

	logger = logger.With().Str(constants.KEY_PROCESS, "removing cart line").Logger()
	logger.Info().Msg("removing cart line")
	c = logger.WithContext(c)
	cart, err := t.service.RemoveLine(c, principal, lineId)
	if err != nil {
		err = fmt.Errorf("failed removing cartLineId=%s with error=%w", lineId.String(), err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("removed cart line")

	writeCart(c, w, "removed cart line", cart)
}

func (t CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController Clear").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	cart, err := t.service.Clear(c, principal)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("cleared cart")

	writeCart(c, w, "cleared cart", cart)
}

func (t CartController) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController ApplyCoupon").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.ApplyCoupon{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "applying coupon").
		Str(constants.KEY_COUPON_CODE, reqBody.Code).
		Logger()
	logger.Info().Msg("applying coupon")
	c = logger.WithContext(c)
	cart, err := t.service.ApplyCoupon(c, principal, reqBody)
	if err != nil {
		err = fmt.Errorf("failed applying couponCode=%s with error=%w", reqBody.Code, err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("applied coupon")

	writeCart(c, w, "applied coupon", cart)
}

func (t CartController) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveCoupon").
		Logger()

	principal, ok := principalFrom(c, w, span, logger)
	if !ok {
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "removing coupon").Logger()
	logger.Info().Msg("removing coupon")
	c = logger.WithContext(c)
	cart, err := t.service.RemoveCoupon(c, principal)
	if err != nil {
		err = fmt.Errorf("failed removing coupon with error=%w", err)
		writeError(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("removed coupon")

	writeCart(c, w, "removed coupon", cart)
}

func principalFrom(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
) (identity.Principal, bool) {
	principal, ok := identity.PrincipalFromContext(c)
	if !ok {
		err := errors.New("no principal attached to request")
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusUnauthorized, err.Error(), nil)
		return identity.Principal{}, false
	}
	return principal, true
}

// writeError maps domain errors onto response statuses: missing
// resources are 404, coupon rejections are 422 with the reason attached,
// anything else is a 500.
func writeError(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
	err error,
) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())

	rejection := &coupon.Rejection{}
	if errors.As(err, &rejection) {
		data := map[string]interface{}{"reason": rejection.Reason}
		if rejection.Reason == coupon.ReasonBelowMinimum {
			data["minimumOrderAmount"] = rejection.Minimum
		}
		writeFailed(c, w, http.StatusUnprocessableEntity, rejection.Error(), data)
		return
	}

	switch {
	case errors.Is(err, inErrors.ErrServiceNotFound),
		errors.Is(err, inErrors.ErrCartLineNotFound),
		errors.Is(err, inErrors.ErrCouponNotFound):
		writeFailed(c, w, http.StatusNotFound, err.Error(), nil)
	default:
		writeFailed(c, w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func writeFailed(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	data map[string]interface{},
) {
	body := map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    message,
	}
	if data != nil {
		body["data"] = data
	}
	inHttp.WriteJsonResponse(c, w, map[string]string{}, body)
}

func writeCart(c context.Context, w http.ResponseWriter, message string, cart response.Cart) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    message,
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}
