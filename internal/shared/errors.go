package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedHeader indicates the Authorization header is missing the bearer prefix.
	ErrMalformedHeader = errors.New("invalid authorization header format")
	// ErrInvalidToken indicates the bearer token failed validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the bearer token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrPermissionDenied indicates none of the user's roles grant the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidInput indicates a malformed payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrDuplicateRoleName indicates a role with the same name exists.
	ErrDuplicateRoleName = errors.New("role name already exists")
	// ErrDuplicateModuleName indicates a module with the same name exists.
	ErrDuplicateModuleName = errors.New("module name already exists")
	// ErrDuplicate indicates a generic uniqueness violation.
	ErrDuplicate = errors.New("duplicate entry")
)
