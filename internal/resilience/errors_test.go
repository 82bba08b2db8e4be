package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/sells-group/forecast-rugby/internal/model"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("unexpected status %d", e.code) }
func (e statusErr) HTTPStatus() int { return e.code }

type categorizedErr struct{}

func (categorizedErr) Error() string                      { return "drift" }
func (categorizedErr) ErrorCategory() model.ErrorCategory { return model.ErrorCategoryResolution }

func TestIsSuccess(t *testing.T) {
	for code, want := range map[int]bool{200: true, 201: true, 204: true, 299: true, 199: false, 301: false, 404: false, 500: false} {
		if got := IsSuccess(code); got != want {
			t.Errorf("IsSuccess(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil); got != "" {
		t.Errorf("expected empty category, got %q", got)
	}
}

func TestClassify_WrappedStatusError(t *testing.T) {
	err := eris.Wrap(statusErr{code: 503}, "scorecast: games")
	if got := Classify(err); got != model.ErrorCategoryUpstreamStatus {
		t.Errorf("got %q, want upstream_status", got)
	}
}

func TestClassify_SelfCategorized(t *testing.T) {
	err := fmt.Errorf("predict: %w", categorizedErr{})
	if got := Classify(err); got != model.ErrorCategoryResolution {
		t.Errorf("got %q, want resolution", got)
	}
}

func TestClassify_Canceled(t *testing.T) {
	err := eris.Wrap(context.Canceled, "fetch")
	if got := Classify(err); got != model.ErrorCategoryCanceled {
		t.Errorf("got %q, want canceled", got)
	}
	if got := Classify(context.DeadlineExceeded); got != model.ErrorCategoryCanceled {
		t.Errorf("got %q, want canceled", got)
	}
}

func TestClassify_Network(t *testing.T) {
	err := fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)
	if got := Classify(err); got != model.ErrorCategoryNetwork {
		t.Errorf("got %q, want network", got)
	}
}

func TestClassify_Internal(t *testing.T) {
	if got := Classify(errors.New("boom")); got != model.ErrorCategoryInternal {
		t.Errorf("got %q, want internal", got)
	}
}

func TestIsNetwork_ConnectionReset(t *testing.T) {
	err := fmt.Errorf("write tcp: %w", syscall.ECONNRESET)
	if !IsNetwork(err) {
		t.Error("ECONNRESET should be a network error")
	}
}

func TestIsNetwork_Timeout(t *testing.T) {
	err := &net.DNSError{IsTimeout: true, Err: "timeout"}
	if !IsNetwork(err) {
		t.Error("network timeout should be a network error")
	}
}

func TestIsNetwork_TransportErrors(t *testing.T) {
	errs := map[string]error{
		"dial refused": &url.Error{Op: "Get", URL: "https://fdj.test", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
		"dns lookup":   eris.Wrap(&url.Error{Op: "Get", URL: "https://fdj.test", Err: &net.DNSError{Err: "no such host", Name: "fdj.test", IsNotFound: true}}, "fetch"),
		"short body":   fmt.Errorf("read body: %w", io.ErrUnexpectedEOF),
		"idle close":   errors.New("http: server closed idle connection"),
	}
	for name, err := range errs {
		if !IsNetwork(err) {
			t.Errorf("%s: expected %v to be a network error", name, err)
		}
	}
}

func TestIsNetwork_MessageAloneIsNotEnough(t *testing.T) {
	if IsNetwork(errors.New("scorecast: connection reset by peer in upstream log")) {
		t.Error("plain text error should not be a network error")
	}
}

func TestIsNetwork_RegularError(t *testing.T) {
	if IsNetwork(errors.New("invalid input: missing field")) {
		t.Error("regular error should not be a network error")
	}
	if IsNetwork(nil) {
		t.Error("nil error should not be a network error")
	}
}
