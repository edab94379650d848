package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindForbidden:
		return "Forbidden"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Internal"
	}
}

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below even after WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validation builds an ad-hoc 400 error.
func Validation(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a store or infrastructure failure.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "Internal", Message: op, Err: err}
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInvalidRange      = New(KindValidation, "InvalidRange", "minPrice must not be greater than maxPrice")
	ErrInvalidPagination = New(KindValidation, "InvalidPagination", "page must be >= 1 and pageSize between 1 and 100")
	ErrInvalidPrice      = New(KindValidation, "InvalidPrice", "price filters must be non-negative")
	ErrCategoryNotFound  = New(KindValidation, "CategoryNotFound", "category not found or inactive")
	ErrSellerNotFound    = New(KindValidation, "SellerNotFound", "seller not found or inactive")
	ErrParentNotFound    = New(KindValidation, "ParentNotFound", "parent category not found")
	ErrInvalidParent     = New(KindValidation, "InvalidParent", "category cannot be nested under itself")
	ErrInvalidProduct    = New(KindValidation, "InvalidProduct", "invalid product fields")
	ErrInvalidImage      = New(KindValidation, "InvalidImage", "invalid image")
	ErrInsufficientStock = New(KindValidation, "InsufficientStock", "not enough stock")
	ErrEmptyCart         = New(KindValidation, "EmptyCart", "cart is empty")

	ErrPageOutOfRange = New(KindNotFound, "PageOutOfRange", "page is out of range")
	ErrNotFound       = New(KindNotFound, "NotFound", "resource not found")

	ErrEmailExists = New(KindConflict, "EmailExists", "User with this email exists")

	ErrForbidden = New(KindForbidden, "Forbidden", "forbidden")

	ErrInvalidCredentials = New(KindUnauthorized, "InvalidCredentials", "Incorrect email or password")
	ErrInvalidToken       = New(KindUnauthorized, "InvalidToken", "Could not validate token")
	ErrExpiredToken       = New(KindUnauthorized, "ExpiredToken", "Token has expired")
	ErrWrongTokenType     = New(KindUnauthorized, "WrongTokenType", "Wrong token type")
	ErrUserInactive       = New(KindUnauthorized, "UserInactive", "User not found or inactive")
	ErrMissingToken       = New(KindUnauthorized, "MissingToken", "Authorization header required")
)
