package resilience

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/sells-group/forecast-rugby/internal/model"
)

// StatusCoder is implemented by errors carrying the HTTP status of a
// non-2xx response.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code/100 == 2
}

// Categorized is implemented by errors that know their own category.
type Categorized interface {
	error
	ErrorCategory() model.ErrorCategory
}

// Classify maps an error to the category recorded on a failed run.
func Classify(err error) model.ErrorCategory {
	if err == nil {
		return ""
	}

	var c Categorized
	if errors.As(err, &c) {
		return c.ErrorCategory()
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return model.ErrorCategoryUpstreamStatus
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return model.ErrorCategoryCanceled
	}

	if IsNetwork(err) {
		return model.ErrorCategoryNetwork
	}

	return model.ErrorCategoryInternal
}

// IsNetwork reports whether err comes from the transport rather than from
// a response: dial and read failures, DNS lookups, timeouts, or a body cut
// short.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// net/http does not export this one.
	return strings.Contains(err.Error(), "server closed idle connection")
}
