// Package apperr holds the error kinds shared by the order core and its
// callers. Lower layers wrap them with fmt.Errorf("%w: ...") and callers
// test with errors.Is.
package apperr

import "errors"

var (
	ErrValidation           = errors.New("validation")             // 400
	ErrInsufficientPayment  = errors.New("insufficient payment")   // 422
	ErrDuplicateOrderNumber = errors.New("duplicate order number") // 409
	ErrNotFound             = errors.New("not found")              // 404
	ErrUnauthorized         = errors.New("unauthorized")           // 403, requester is not the owner
	ErrForbidden            = errors.New("forbidden")              // 403, role too low
	ErrInvalidState         = errors.New("invalid state")          // 409
	ErrConflict             = errors.New("conflict")               // 409
	ErrInvalidCredentials   = errors.New("invalid credentials")    // 401
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrValidation, "validation"},
	{ErrInsufficientPayment, "insufficient_payment"},
	{ErrDuplicateOrderNumber, "duplicate_order_number"},
	{ErrNotFound, "not_found"},
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
	{ErrInvalidState, "invalid_state"},
	{ErrConflict, "conflict"},
	{ErrInvalidCredentials, "invalid_credentials"},
}

// Kind names the taxonomy entry err belongs to, or "internal".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
