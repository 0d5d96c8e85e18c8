package httperr

import "errors"

// Kind groups reason codes into the categories clients map to responses.
type Kind string

const (
	KindNotFound  Kind = "not_found"
	KindForbidden Kind = "forbidden"
	KindInvalid   Kind = "invalid"
	KindConflict  Kind = "conflict"
	KindInternal  Kind = "internal"

	KindUnauthorized Kind = "unauthorized"
)

// BusinessError is an expected rejection carrying a stable reason code.
type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness builds an Invalid rejection.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindInvalid, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrForbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrUnauthorized(code string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
