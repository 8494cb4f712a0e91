package contentstore

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// retryableStatuses are upstream responses worth retrying: rate limiting and
// gateway-level unavailability.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// retryableFragments is the last-resort substring check for opaque provider
// errors that carry no structured code. Structured classification (response
// status, net.Error) always runs first.
var retryableFragments = []string{
	"timeout",
	"network",
	"connection reset",
	"etimedout",
}

// IsRetryable reports whether err looks like a transient upstream condition.
//
// Classification order: HTTP status from the provider response, net.Error
// timeouts, then message substrings as a fallback for errors the HTTP layer
// could not attribute.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return retryableStatuses[respErr.HTTPStatusCode()]
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	return false
}

// IsEntityTooLarge reports whether err is the provider's payload-size
// rejection. It is terminal for the request that produced it but triggers the
// batch uploader's degrade-to-individual path.
func IsEntityTooLarge(err error) bool {
	if err == nil {
		return false
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusRequestEntityTooLarge {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityTooLarge" {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "entity too large")
}

// IsValidationError reports whether err is the provider rejecting the object
// itself (bad key pattern, malformed payload). These are never retried.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidArgument", "KeyTooLongError", "InvalidRequest", "MalformedXML":
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not match the pattern") || strings.Contains(msg, "validation")
}
