package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrPersistence       = errors.New("persistence failure")
)

// ObjectNotFoundError reports an id that did not resolve to a stored object.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitizeValue(e.Value), e.ParamName, sanitizeValue(e.Min), sanitizeValue(e.Max))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// AuthError reports a caller that could not be identified (ErrMissingToken,
// ErrInvalidToken) or is not allowed to act on a resource (ErrUnauthorized).
type AuthError struct {
	Kind   error
	Reason string
	Cause  error
}

func NewMissingTokenError() *AuthError {
	return &AuthError{Kind: ErrMissingToken, Reason: "bearer token is required"}
}

func NewInvalidTokenError(cause error) *AuthError {
	return &AuthError{Kind: ErrInvalidToken, Reason: "bearer token is not valid", Cause: cause}
}

func NewUnauthorizedError(reason string) *AuthError {
	return &AuthError{Kind: ErrUnauthorized, Reason: reason}
}

func (e *AuthError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrUnauthorized
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", kind, e.Reason)
}

func (e *AuthError) Unwrap() error {
	if e.Kind == nil {
		return ErrUnauthorized
	}
	return e.Kind
}

// IllegalTransitionError reports a status change that the current status does not permit.
type IllegalTransitionError struct {
	From string
	To   string
}

func NewIllegalTransitionError(from, to string) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// PersistenceError wraps a datastore failure. It is the only retryable kind.
type PersistenceError struct {
	Operation string
	Cause     error
}

func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Cause: cause}
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistence, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPersistence, e.Operation)
}

// Unwrap exposes both the sentinel and the cause so that errors.Is matches
// context.DeadlineExceeded and driver errors as well as ErrPersistence.
func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}

// IsRetryable reports whether retrying the failed operation might succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// AsPersistence wraps err as a PersistenceError unless it already carries a
// classified kind.
func AsPersistence(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return NewPersistenceError(operation, err)
}

// IsClassified reports whether err already belongs to one of the package kinds.
func IsClassified(err error) bool {
	for _, kind := range []error{
		ErrObjectNotFound, ErrValueIsInvalid, ErrValueIsOutOfRange, ErrValueIsRequired,
		ErrMissingToken, ErrInvalidToken, ErrUnauthorized, ErrIllegalTransition, ErrPersistence,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Error codes reported to clients.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeIllegalTransition = "ILLEGAL_TRANSITION"
	CodePersistence       = "PERSISTENCE_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// Code returns the client-facing code of err's kind.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return CodeMissingToken
	case errors.Is(err, ErrInvalidToken):
		return CodeInvalidToken
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrObjectNotFound):
		return CodeNotFound
	case errors.Is(err, ErrIllegalTransition):
		return CodeIllegalTransition
	case errors.Is(err, ErrPersistence):
		return CodePersistence
	case errors.Is(err, ErrValueIsRequired), errors.Is(err, ErrValueIsInvalid), errors.Is(err, ErrValueIsOutOfRange):
		return CodeValidation
	default:
		return CodeInternal
	}
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func sanitize(v any) string {
	return newlines.Replace(fmt.Sprintf("%s", v))
}

func sanitizeValue(v any) string {
	return newlines.Replace(fmt.Sprintf("%v", v))
}
