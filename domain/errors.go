package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrCacheMiss signals that a cache layer has no entry and the caller should rebuild
	ErrCacheMiss = errors.New("cache miss")
	// ErrStoreUnavailable signals an infrastructure fault in the persistent store
	ErrStoreUnavailable = errors.New("interaction store unavailable")
)

// RejectionKind distinguishes the client-correctable rejection categories.
type RejectionKind int

const (
	RejectionValidation RejectionKind = iota
	RejectionSpam
	RejectionRateLimited
)

// Rejection is a client-correctable refusal of a submission. It carries a
// human-readable reason and is never treated as a server fault.
type Rejection struct {
	Kind   RejectionKind
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func NewValidationRejection(reason string) *Rejection {
	return &Rejection{Kind: RejectionValidation, Reason: reason}
}

func NewSpamRejection(reason string) *Rejection {
	return &Rejection{Kind: RejectionSpam, Reason: reason}
}

func NewRateLimitRejection(reason string) *Rejection {
	return &Rejection{Kind: RejectionRateLimited, Reason: reason}
}

// AsRejection unwraps err into a *Rejection when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
