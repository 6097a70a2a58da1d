package identity

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// Text codes give every failure kind a stable, machine readable identifier
// that survives message changes.
const (
	TextCodeValidationFailed = "VALIDATION_FAILED"
	TextCodeEmailInUse       = "EMAIL_IN_USE"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeAuthRequired     = "AUTH_REQUIRED"
	TextCodeAccessDenied     = "ACCESS_DENIED"
	TextCodeNotFound         = "RESOURCE_NOT_FOUND"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
)

// ErrEmailInUse is returned when a registration collides with an existing
// account, regardless of whether the pre-check or the store detected it.
var ErrEmailInUse = errors.New("email is already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailInUse)

// ErrBadCredentials is the single error for both unknown-email and
// wrong-password failures so callers cannot enumerate accounts.
var ErrBadCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrUnauthenticated is returned when a protected operation is reached
// without a resolvable principal.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired)

// ErrAccessDenied is returned when a policy denies an authenticated
// principal. The message never explains which policy failed.
var ErrAccessDenied = errors.New("you do not have permission to access this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeAccessDenied)

// ErrAccountNotFound is returned for lookups and deletes that miss.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound)

// ErrTokenExpired is returned for structurally valid tokens past their exp claim.
var ErrTokenExpired = errors.New("authentication token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenInvalid covers every other token rejection: malformed, wrong
// signature, tampered payload. One kind, so the rejection reason does not leak.
var ErrTokenInvalid = errors.New("authentication token is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid)

// ErrNoEmptyString rejects empty plaintext before it reaches bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrorResponse is the externally visible shape of any failure.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Fields    map[string]string `json:"fields,omitempty"`
}

const unclassifiedMessage = "An unexpected internal server error occurred. Please try again later."

// MapError classifies err into the response taxonomy. It is total: every
// error maps to a response, and anything unrecognized becomes a 500 with a
// generic message so internal detail never reaches the body.
func MapError(err error, path string) ErrorResponse {
	res := ErrorResponse{
		Timestamp: time.Now(),
		Path:      path,
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		res.Status = http.StatusBadRequest
		res.Message = "Validation failed"
		res.Fields = flattenValidationErrors(verrs)
		res.Error = http.StatusText(res.Status)
		return res
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		res.Status = http.StatusInternalServerError
		res.Message = unclassifiedMessage
		res.Error = http.StatusText(res.Status)
		return res
	}

	switch rich.Category {
	case errors.CategoryValidation:
		res.Status = http.StatusBadRequest
		res.Message = rich.Message
	case errors.CategoryConflict:
		res.Status = http.StatusBadRequest
		res.Message = ErrEmailInUse.Message
	case errors.CategoryAuth:
		res.Status = http.StatusUnauthorized
		res.Message = rich.Message
	case errors.CategoryAuthz:
		res.Status = http.StatusForbidden
		res.Message = ErrAccessDenied.Message
	case errors.CategoryNotFound:
		res.Status = http.StatusNotFound
		res.Message = rich.Message
	default:
		res.Status = http.StatusInternalServerError
		res.Message = unclassifiedMessage
	}

	res.Error = http.StatusText(res.Status)
	return res
}

func flattenValidationErrors(verrs validation.Errors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for name, ferr := range verrs {
		if ferr == nil {
			continue
		}
		fields[name] = ferr.Error()
	}
	return fields
}

// IsTokenExpiredError reports whether err is the expired-token kind.
func IsTokenExpiredError(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsBadCredentialsError reports whether err is the invalid-credentials kind.
func IsBadCredentialsError(err error) bool {
	return hasTextCode(err, TextCodeInvalidCreds)
}

// IsEmailInUseError reports whether err is the duplicate-email kind.
func IsEmailInUseError(err error) bool {
	return hasTextCode(err, TextCodeEmailInUse)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}
