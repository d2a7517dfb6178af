package services

import "errors"

// Service errors. Each one is a stable, client-facing rejection kind.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("resource not found")
	ErrJobNotOpen             = errors.New("job is not open")
	ErrJobNotEligible         = errors.New("job is not eligible for rating")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrTerminalStateViolation = errors.New("job is in a terminal state")
	ErrDuplicateApplication   = errors.New("duplicate application")
	ErrDuplicateRating        = errors.New("duplicate rating")
	ErrPaymentNotConfirmed    = errors.New("payment not confirmed")
	ErrInvalidState           = errors.New("invalid state for operation")
	ErrSelfAssignment         = errors.New("cannot apply to own job")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidCredentials, "InvalidCredentials"},
	{ErrInvalidToken, "InvalidToken"},
	{ErrForbidden, "Forbidden"},
	{ErrNotFound, "NotFound"},
	{ErrJobNotOpen, "JobNotOpen"},
	{ErrJobNotEligible, "JobNotEligible"},
	{ErrInvalidTransition, "InvalidTransition"},
	{ErrTerminalStateViolation, "TerminalStateViolation"},
	{ErrDuplicateApplication, "DuplicateApplication"},
	{ErrDuplicateRating, "DuplicateRating"},
	{ErrPaymentNotConfirmed, "PaymentNotConfirmed"},
	{ErrInvalidState, "InvalidState"},
	{ErrSelfAssignment, "SelfAssignment"},
	{ErrValidation, "Validation"},
	{ErrConflict, "Conflict"},
}

// KindInternal is reported for anything outside the taxonomy.
const KindInternal = "Internal"

// ErrorKind returns the stable name of err's taxonomy kind.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
