package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/PtKartikVashishtha/BecopyMain-sub000/errors"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/entities"
	httpmw "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized 201 response
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return respond(logger, c, http.StatusCreated, data)
}

func respond(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    errors.ErrorCode_HTTP_OK,
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger.
// Usecase errors are translated to AppError first.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = toAppError(err)
	}

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		// business outcomes are expected, only failures of ours or the provider's are errors
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Info("http.response.rejected", fields...)
		}
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	// internal causes stay in the logs
	if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
		body.Info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, body)
}

// handleResourceError reports err with the id of the invite or session it concerns
func handleResourceError(logger *zap.Logger, c echo.Context, err error, key string, id uuid.UUID) error {
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = toAppError(err)
	}
	if appErr.HTTPCode != http.StatusInternalServerError {
		appErr = appErr.WithDetail(key, id.String())
	}
	return HandleError(logger, c, appErr)
}

// usecaseCodes maps usecase error codes to their API code and status
var usecaseCodes = map[string]struct {
	status int
	code   errors.ErrorCode
}{
	usecaseErrors.ErrSelfInvite.Code:                       {http.StatusBadRequest, errors.ErrorCode_INVITE_SELF},
	usecaseErrors.ErrInvalidMessage.Code:                   {http.StatusBadRequest, errors.ErrorCode_INVITE_MESSAGE_INVALID},
	usecaseErrors.ErrRecipientUnavailable.Code:             {http.StatusBadRequest, errors.ErrorCode_INVITE_RECIPIENT_INVALID},
	usecaseErrors.ErrInviteNotFound.Code:                   {http.StatusNotFound, errors.ErrorCode_INVITE_NOT_FOUND},
	usecaseErrors.ErrChatSessionNotFound.Code:              {http.StatusNotFound, errors.ErrorCode_CHAT_NOT_FOUND},
	usecaseErrors.ErrDuplicateInvite.Code:                  {http.StatusConflict, errors.ErrorCode_INVITE_DUPLICATE},
	usecaseErrors.ErrInviteExpired.Code:                    {http.StatusConflict, errors.ErrorCode_INVITE_EXPIRED},
	usecaseErrors.ErrInviteNotFoundOrAlreadyProcessed.Code: {http.StatusConflict, errors.ErrorCode_INVITE_ALREADY_PROCESSED},
	usecaseErrors.ErrInviteNotAccepted.Code:                {http.StatusConflict, errors.ErrorCode_INVITE_NOT_ACCEPTED},
	usecaseErrors.ErrChatSessionInvalidTransition.Code:     {http.StatusConflict, errors.ErrorCode_CHAT_INVALID_TRANSITION},
	usecaseErrors.ErrChatSessionNotActive.Code:             {http.StatusConflict, errors.ErrorCode_CHAT_NOT_ACTIVE},
	usecaseErrors.ErrChatProvider.Code:                     {http.StatusBadGateway, errors.ErrorCode_INTEGRATION_CHAT_PROVIDER_FAILED},
}

// kindDefaults covers codes without a dedicated entry
var kindDefaults = map[usecaseErrors.Kind]struct {
	status int
	code   errors.ErrorCode
}{
	usecaseErrors.KindValidation:        {http.StatusBadRequest, errors.ErrorCode_INVALID_ARGUMENT},
	usecaseErrors.KindNotFound:          {http.StatusNotFound, errors.ErrorCode_NOT_FOUND},
	usecaseErrors.KindForbidden:         {http.StatusForbidden, errors.ErrorCode_FORBIDDEN},
	usecaseErrors.KindDuplicateInvite:   {http.StatusConflict, errors.ErrorCode_INVITE_DUPLICATE},
	usecaseErrors.KindInvalidTransition: {http.StatusConflict, errors.ErrorCode_INVITE_INVALID_TRANSITION},
	usecaseErrors.KindExternalProvider:  {http.StatusBadGateway, errors.ErrorCode_INTEGRATION_CHAT_PROVIDER_FAILED},
}

func toAppError(err error) errors.AppError {
	var ucErr *usecaseErrors.Error
	if !stdErrors.As(err, &ucErr) || ucErr.Kind == usecaseErrors.KindInternal {
		return errors.ErrInternal(err)
	}

	mapping, ok := usecaseCodes[ucErr.Code]
	if !ok {
		mapping = kindDefaults[ucErr.Kind]
	}

	var raw error
	if ucErr.Kind != usecaseErrors.KindExternalProvider {
		raw = ucErr.Err
	}
	return errors.Build(mapping.status, mapping.code, ucErr.Message, raw)
}

// currentUser reads the user set by the auth middleware
func currentUser(c echo.Context) (entities.UserRef, error) {
	user, ok := httpmw.UserFromContext(c)
	if !ok {
		return entities.UserRef{}, errors.ErrUnauthenticated()
	}
	return user, nil
}

// uuidParam parses a path parameter as a UUID
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(name + " must be a valid UUID")
	}
	return id, nil
}

// bindAndValidate binds the request into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		appErr := errors.ErrInvalidPayload()
		appErr.Raw = err
		return appErr
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrInvalidArgument("validation failed")
		appErr.Raw = err
		return appErr
	}
	return nil
}
