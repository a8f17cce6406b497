package ierr

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")

	ErrClientNotFound     = errors.New("client not found")
	ErrClientInactive     = errors.New("client is inactive")
	ErrAPIKeyNotFound     = errors.New("api key not found")
	ErrAPIKeyLimitReached = errors.New("api key limit reached for client")
	ErrDomainNotFound     = errors.New("domain not found")
	ErrDomainAccessDenied = errors.New("api key is not allowed to access this domain")
	ErrEmailTaken         = errors.New("email is already registered")
)
