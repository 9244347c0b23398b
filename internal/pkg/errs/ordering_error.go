package errs

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable identifier carried by every
// OrderingError. Clients dispatch on the code, humans read the text.
type Code string

const (
	CodeProductOrderingNotSupported Code = "ProductOrderingNotSupported"
	CodeSubscriptionNotSupported    Code = "SubscriptionNotSupported"
	CodeFutureProductNotSupported   Code = "FutureProductNotSupported"
	CodeInvalidParameterValue       Code = "InvalidParameterValue"
	CodeInvalidOrderIdentifier      Code = "InvalidOrderIdentifier"
	CodeAuthorizationFailed         Code = "AuthorizationFailed"
	CodeQuotaExceeded               Code = "QuotaExceeded"
	CodeNoApplicableCode            Code = "NoApplicableCode"
	CodeServerError                 Code = "ServerError"
)

// OrderingError is the protocol-level failure returned to clients of the
// ordering operations. Locator points at the request element that caused
// the rejection, when one can be named.
type OrderingError struct {
	Code    Code
	Text    string
	Locator string
	Cause   error
}

func (e *OrderingError) Error() string {
	if e.Locator != "" {
		return sanitize(fmt.Sprintf("%s: %s (locator: %s)", e.Code, e.Text, e.Locator))
	}
	return sanitize(fmt.Sprintf("%s: %s", e.Code, e.Text))
}

func (e *OrderingError) Unwrap() error {
	return e.Cause
}

func NewProductOrderingNotSupportedError() *OrderingError {
	return &OrderingError{
		Code:    CodeProductOrderingNotSupported,
		Text:    "product ordering is not supported",
		Locator: "orderType",
	}
}

func NewSubscriptionNotSupportedError() *OrderingError {
	return &OrderingError{
		Code:    CodeSubscriptionNotSupported,
		Text:    "subscription ordering is not supported",
		Locator: "orderType",
	}
}

func NewFutureProductNotSupportedError() *OrderingError {
	return &OrderingError{
		Code:    CodeFutureProductNotSupported,
		Text:    "tasking orders are not supported",
		Locator: "orderType",
	}
}

func NewInvalidParameterValueError(locator string, value string) *OrderingError {
	return &OrderingError{
		Code:    CodeInvalidParameterValue,
		Text:    fmt.Sprintf("invalid value for parameter: %s", value),
		Locator: locator,
	}
}

// NewInvalidParameterValueErrorFromDomain wraps a domain validation
// failure into the protocol error reported for the given locator.
func NewInvalidParameterValueErrorFromDomain(locator string, cause error) *OrderingError {
	return &OrderingError{
		Code:    CodeInvalidParameterValue,
		Text:    cause.Error(),
		Locator: locator,
		Cause:   cause,
	}
}

func NewInvalidOrderIdentifierError(orderID string) *OrderingError {
	return &OrderingError{
		Code:    CodeInvalidOrderIdentifier,
		Text:    "order does not exist",
		Locator: orderID,
	}
}

func NewAuthorizationFailedError(locator string) *OrderingError {
	return &OrderingError{
		Code:    CodeAuthorizationFailed,
		Text:    "the client is not authorized to call the operation",
		Locator: locator,
	}
}

func NewQuotaExceededError(text string) *OrderingError {
	return &OrderingError{
		Code: CodeQuotaExceeded,
		Text: text,
	}
}

func NewNoApplicableCodeError(text string) *OrderingError {
	return &OrderingError{
		Code: CodeNoApplicableCode,
		Text: text,
	}
}

func NewServerError(text string) *OrderingError {
	return &OrderingError{
		Code: CodeServerError,
		Text: text,
	}
}

func NewServerErrorWithCause(text string, cause error) *OrderingError {
	return &OrderingError{
		Code:  CodeServerError,
		Text:  text,
		Cause: cause,
	}
}

// AsOrderingError extracts an OrderingError from an error chain.
func AsOrderingError(err error) (*OrderingError, bool) {
	var oe *OrderingError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
