package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/lumen-lms/lumen/internal/shared"
)

// Stable error codes carried in the error envelope. The invalid/expired token
// split (300/301) is part of the public contract; do not renumber.
const (
	CodeMalformedHeader    = 401
	CodeInvalidToken       = 300
	CodeTokenExpired       = 301
	CodePermissionDenied   = 403
	CodeInvalidCredentials = 400
	CodeDuplicate          = 409
	CodeInvalidInput       = 422
	CodeNotFound           = 404
	CodeInternal           = 500
)

// RespondError maps domain errors to the error envelope. Authorization
// failures become 401/403; everything unrecognised is a generic 500 with no
// detail leaked.
func RespondError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrMalformedHeader):
		Fail(w, http.StatusUnauthorized, CodeMalformedHeader, "Invalid authorization header format")
	case errors.Is(err, shared.ErrInvalidToken):
		Fail(w, http.StatusUnauthorized, CodeInvalidToken, "Invalid token")
	case errors.Is(err, shared.ErrTokenExpired):
		Fail(w, http.StatusUnauthorized, CodeTokenExpired, "Token expired")
	case errors.Is(err, shared.ErrPermissionDenied):
		Fail(w, http.StatusForbidden, CodePermissionDenied, "Permission denied: you are not authorized to perform this action")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusBadRequest, CodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, shared.ErrDuplicateUsername),
		errors.Is(err, shared.ErrDuplicateEmail),
		errors.Is(err, shared.ErrDuplicateRoleName),
		errors.Is(err, shared.ErrDuplicateModuleName),
		errors.Is(err, shared.ErrDuplicate):
		Fail(w, http.StatusConflict, CodeDuplicate, err.Error())
	case errors.As(err, &verr), errors.Is(err, shared.ErrInvalidInput):
		Fail(w, http.StatusUnprocessableEntity, CodeInvalidInput, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, CodeInternal, "Internal error")
	}
}
