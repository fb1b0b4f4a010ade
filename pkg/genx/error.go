package genx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// ErrDone is returned when the stream is done.
var ErrDone = errors.New("genx: done")

func Done(stats Usage) *State {
	return &State{
		usage:  stats,
		status: StatusDone,
		err:    ErrDone,
	}
}

func Blocked(stats Usage, refusal string) *State {
	return &State{
		usage:  stats,
		status: StatusBlocked,
		err:    fmt.Errorf("genx: generate blocked: %s", refusal),
	}
}

func Truncated(stats Usage) *State {
	return &State{
		usage:  stats,
		status: StatusTruncated,
		err:    errors.New("genx: generate truncated"),
	}
}

func Error(stats Usage, err error) *State {
	return &State{
		usage:  stats,
		status: StatusError,
		err:    fmt.Errorf("genx: generate error: %w", err),
	}
}

// State is the terminal error of a Stream.
type State struct {
	usage  Usage
	status Status
	err    error
}

func (ss State) Usage() Usage {
	return ss.usage
}

func (ss State) Status() Status {
	return ss.status
}

func (ss State) Unwrap() error {
	return ss.err
}

func (ss State) Error() string {
	switch ss.status {
	case StatusDone:
		return "genx: generate done"
	case StatusTruncated, StatusBlocked, StatusError:
		return ss.err.Error()
	default:
		return fmt.Sprintf("genx: unexpected stream status: %v", ss.status)
	}
}

// IsPermanent reports whether err is a provider rejection that retrying the
// same request cannot fix: bad request, authentication, permission or unknown
// model.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return permanentStatus(oaiErr.StatusCode)
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return permanentStatus(gErr.Code)
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) && gErrPtr != nil {
		return permanentStatus(gErrPtr.Code)
	}
	var gaxErr *apierror.APIError
	if errors.As(err, &gaxErr) {
		return permanentStatus(gaxErr.HTTPCode())
	}
	return false
}

func permanentStatus(code int) bool {
	switch code {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusPaymentRequired,
		http.StatusForbidden,
		http.StatusNotFound:
		return true
	}
	return false
}
