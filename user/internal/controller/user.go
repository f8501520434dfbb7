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

	"github.com/servease/servease/internal/constants"
	inErrors "github.com/servease/servease/internal/errors"
	inHttp "github.com/servease/servease/internal/http"
	inOtel "github.com/servease/servease/internal/otel"
	"github.com/servease/servease/user/internal/otel"
	"github.com/servease/servease/user/internal/service"
	"github.com/servease/servease/user/pkg/request"
)

type UserController struct {
	service *service.UserService
}

func AttachUserController(router *mux.Router, service *service.UserService) {
	controller := UserController{service: service}

	r := router.PathPrefix("/users").Subrouter()
	r.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	r.HandleFunc("/{userId}", controller.FindUserById).Methods(http.MethodGet)
}

func (t UserController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController Register").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Register{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
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
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "registering user").
		Str(constants.KEY_EMAIL, reqBody.Email).
		Logger()
	logger.Info().Msg("registering user")
	c = logger.WithContext(c)
	user, err := t.service.Register(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed registering user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if errors.Is(err, inErrors.ErrEmailTaken) {
			writeFailed(c, w, http.StatusConflict, inErrors.ErrEmailTaken.Error())
			return
		}
		writeFailed(c, w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info().Msg("registered user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    "registered user",
		"data": map[string]interface{}{
			"user": user,
		},
	})
}

func (t UserController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController Login").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
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
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(constants.KEY_PROCESS, "logging in user").
		Str(constants.KEY_EMAIL, reqBody.Email).
		Logger()
	logger.Info().Msg("logging in user")
	c = logger.WithContext(c)
	token, err := t.service.Login(c, reqBody)
	if err != nil {
		// a wrong email and a wrong password read the same to the caller
		if errors.Is(err, inErrors.ErrUserNotFound) ||
			errors.Is(err, inErrors.ErrPasswordMismatch) {
			logger.Info().Err(err).Msg("login rejected")
			writeFailed(c, w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		err = fmt.Errorf("failed logging in user with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info().Msg("logged in user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged in",
		"data": map[string]interface{}{
			"token": token,
		},
	})
}

func (t UserController) FindUserById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UserController FindUserById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserController FindUserById").
		Logger()

	pathValues := mux.Vars(r)
	userId, err := uuid.Parse(pathValues["userId"])
	if err != nil {
		err = fmt.Errorf("failed validating userId=%s with error=%w", pathValues["userId"], err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user").Logger()
	logger.Info().Msg("finding user")
	c = logger.WithContext(c)
	user, err := t.service.FindUserById(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding userId=%s with error=%w", userId.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		if errors.Is(err, inErrors.ErrUserNotFound) {
			writeFailed(c, w, http.StatusNotFound, inErrors.ErrUserNotFound.Error())
			return
		}
		writeFailed(c, w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info().Msg("found user")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found user",
		"data": map[string]interface{}{
			"user": user,
		},
	})
}

func writeFailed(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    message,
	})
}
