package lookup

import (
	"encoding/json"
	"errors"
	"net/http"
)

// MaxBatchSize is the largest number of addresses InspectAll accepts.
const MaxBatchSize = 100

var (
	// ErrEngineShutdown is returned if engine was shutdown.
	ErrEngineShutdown = errors.New("engine was shutdown")

	// ErrNoData is returned if all providers have failed to resolve
	// the address.
	ErrNoData = errors.New("no provider has returned data")

	// ErrBatchTooLarge is returned if there are more than MaxBatchSize
	// addresses in the batch.
	ErrBatchTooLarge = errors.New("batch is too large")

	// ErrEmptyBatch is returned for empty batches.
	ErrEmptyBatch = errors.New("batch is empty")

	// ErrContextIsClosed is returned if context was closed before the
	// task was scheduled.
	ErrContextIsClosed = errors.New("context is closed")

	// ErrCircuitBreakerOpened is returned by HTTP client if upstream is
	// considered to be unavailable.
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
)

// Machine readable error codes of HTTP responses.
const (
	CodeInvalidIP         = "INVALID_IP"
	CodeDataNotFound      = "DATA_NOT_FOUND"
	CodeEmptyIPList       = "EMPTY_IP_LIST"
	CodeBatchSizeExceeded = "BATCH_SIZE_EXCEEDED"
	CodeLookupError       = "LOOKUP_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
)

type jsonHTTPError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	code       string
	message    string
	err        error
	statusCode int
}

func (h *httpError) Code() string {
	if h == nil || h.code == "" {
		return CodeLookupError
	}

	return h.code
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	value := jsonHTTPError{}
	value.Error.Code = h.Code()
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}
