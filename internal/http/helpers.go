package http

import (
	"errors"
	"net/http"

	"jizhang/internal/core"
	"jizhang/internal/keypad"
	"jizhang/internal/log"
	"jizhang/internal/middleware/trace"
	"jizhang/internal/period"
	"jizhang/internal/records"
	"jizhang/internal/services"
)

// validationErrors map to 400 Bad Request.
var validationErrors = []error{
	ErrBadRequest,
	core.ErrInvalidKind,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyCategory,
	core.ErrRemarkTooLong,
	period.ErrUnknownKind,
	services.ErrUnknownCategory,
	services.ErrZeroAmount,
}

// statusFor maps a domain error to an HTTP status code and the error type
// used in logs.
func statusFor(err error) (int, string) {
	var parseErr *keypad.ParseError
	switch {
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, log.ErrorTypeValidation
	case errors.Is(err, ErrMissingUser):
		return http.StatusUnauthorized, log.ErrorTypeValidation
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound, log.ErrorTypeNotFound
	case errors.Is(err, records.ErrConflict):
		return http.StatusConflict, log.ErrorTypeConflict
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, log.ErrorTypeValidation
		}
	}
	return http.StatusInternalServerError, log.ErrorTypeInternal
}

// writeError answers with the status matching err. Server errors are
// logged with their cause and reported to the client without it.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, errType := statusFor(err)
	message := err.Error()

	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		message = "internal server error"
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithErrorType(errType))
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, op,
			log.FieldErrorType, errType,
			log.FieldError, err.Error())
	}

	ErrorResponse(status, message).
		WithRequestID(trace.GetRequestID(r.Context())).
		Write(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}
