// Package errs provides the error taxonomy for the revocation engine.
// Every error is terminal for the call that produced it; the engine never
// retries internally.
package errs

import (
	"fmt"

	goerrors "errors"
)

// Error represents a single error from the engine.
type Error struct {
	// Code identifies the particular error condition [for programatic consumers]
	Code string `json:"code"`

	// Message is an textual description of the error
	Message string `json:"message"`

	// Cause is the original error
	cause error `json:"-"`
}

// New returns Error instance, building the message string along the way
func New(code string, msgFormat string, vals ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(msgFormat, vals...),
	}
}

// WithCause adds the cause error
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Error implements the standard error interface
func (e *Error) Error() string {
	if e == nil {
		return "nil"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Cause returns original error
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap returns the cause for errors.Is / errors.As chains
func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidArgument returns Error instance with InvalidArgument code
func InvalidArgument(msgFormat string, vals ...interface{}) *Error {
	return New(CodeInvalidArgument, msgFormat, vals...)
}

// PlatformResolution returns Error instance with PlatformResolution code
func PlatformResolution(msgFormat string, vals ...interface{}) *Error {
	return New(CodePlatformResolution, msgFormat, vals...)
}

// ManifestLoad returns Error instance with ManifestLoad code
func ManifestLoad(msgFormat string, vals ...interface{}) *Error {
	return New(CodeManifestLoad, msgFormat, vals...)
}

// CheckFailed returns Error instance with CheckFailed code
func CheckFailed(msgFormat string, vals ...interface{}) *Error {
	return New(CodeCheckFailed, msgFormat, vals...)
}

// PathEncoding returns Error instance with PathEncoding code
func PathEncoding(msgFormat string, vals ...interface{}) *Error {
	return New(CodePathEncoding, msgFormat, vals...)
}

// ConfigLoad returns Error instance with ConfigLoad code
func ConfigLoad(msgFormat string, vals ...interface{}) *Error {
	return New(CodeConfigLoad, msgFormat, vals...)
}

// Unexpected returns Error instance with Unexpected code
func Unexpected(msgFormat string, vals ...interface{}) *Error {
	return New(CodeUnexpected, msgFormat, vals...)
}

// Code returns the error code, or CodeUnexpected for foreign errors
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if goerrors.As(err, &e) {
		return e.Code
	}
	return CodeUnexpected
}

// IsInvalidArgument returns true, if error has InvalidArgument code
func IsInvalidArgument(err error) bool {
	return Code(err) == CodeInvalidArgument
}

// IsManifestLoad returns true, if error has ManifestLoad code
func IsManifestLoad(err error) bool {
	return Code(err) == CodeManifestLoad
}

// IsPlatformResolution returns true, if error has PlatformResolution code
func IsPlatformResolution(err error) bool {
	return Code(err) == CodePlatformResolution
}

// IsCheckFailed returns true, if error has CheckFailed code
func IsCheckFailed(err error) bool {
	return Code(err) == CodeCheckFailed
}

// IsPathEncoding returns true, if error has PathEncoding code
func IsPathEncoding(err error) bool {
	return Code(err) == CodePathEncoding
}

// IsConfigLoad returns true, if error has ConfigLoad code
func IsConfigLoad(err error) bool {
	return Code(err) == CodeConfigLoad
}
