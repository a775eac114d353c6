package lookup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/9seconds/ipintel/intel"
	"github.com/go-chi/chi/v5"
)

type httpHandler struct {
	engine *Engine
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendResult(w http.ResponseWriter, result interface{}) {
	h.encodeJSON(w, http.StatusOK, struct {
		Result interface{} `json:"result"`
	}{
		Result: result,
	})
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, code, message string, statusCode int) {
	e := &httpError{
		code:       code,
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	h.encodeJSON(w, e.StatusCode(), e)
}

func (h httpHandler) sendInspectError(w http.ResponseWriter, err error) {
	e := inspectError(err)

	h.encodeJSON(w, e.StatusCode(), e)
}

func inspectError(err error) *httpError {
	switch {
	case errors.Is(err, intel.ErrInvalidAddress):
		return &httpError{
			code:       CodeInvalidIP,
			message:    "Invalid IP address",
			statusCode: http.StatusBadRequest,
			err:        err,
		}
	case errors.Is(err, ErrNoData):
		return &httpError{
			code:       CodeDataNotFound,
			message:    "Cannot find any data for this IP address",
			statusCode: http.StatusNotFound,
			err:        err,
		}
	case errors.Is(err, ErrEngineShutdown):
		return &httpError{
			code:       CodeUnavailable,
			message:    "Service is shutting down",
			statusCode: http.StatusServiceUnavailable,
			err:        err,
		}
	}

	return &httpError{
		code:    CodeLookupError,
		message: "Cannot inspect IP address",
		err:     err,
	}
}

func newHTTPHandler(engine *Engine) http.Handler {
	handler := httpHandler{
		engine: engine,
	}
	router := chi.NewRouter()

	router.Get("/", handler.handleGetInspect)
	router.Get("/api", handler.handleGetInspect)
	router.Post("/", handler.handlePostBatch)
	router.Post("/batch", handler.handlePostBatch)
	router.Get("/classify", handler.handleGetClassify)
	router.Get("/risk", handler.handleGetRisk)
	router.Get("/vpn-detect", handler.handleGetRisk)
	router.Get("/proxy-detection", handler.handleGetRisk)
	router.Get("/gdpr", handler.handleGetGDPR)
	router.Get("/stats", handler.handleGetStats)
	router.Get("/health", handler.handleGetHealth)

	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, CodeBadRequest,
			"This HTTP method is not allowed", http.StatusMethodNotAllowed)
	})
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, CodeBadRequest,
			"Unknown endpoint", http.StatusNotFound)
	})

	return router
}
