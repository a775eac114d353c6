package lookup

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

var handlePostRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "ips"
        ],
        "additionalProperties": false,
        "properties": {
            "ips": {
                "type": "array",
                "items": {
                    "type": "string",
                    "minLength": 2,
                    "maxLength": 64
                }
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type handlePostRequest struct {
	IPs []string `json:"ips"`
}

type handlePostError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type handlePostResult struct {
	IP     string           `json:"ip"`
	Result *Report          `json:"result,omitempty"`
	Error  *handlePostError `json:"error,omitempty"`
}

type handlePostResponse struct {
	Count   int                `json:"count"`
	Results []handlePostResult `json:"results"`
}

func (h httpHandler) handlePostBatch(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, CodeBadRequest, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := io.ReadAll(req.Body)

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, CodeBadRequest, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := handlePostRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, err, CodeBadRequest, "Cannot validate body", http.StatusBadRequest)

		return
	}

	if len(errs) > 0 {
		h.sendError(w, errs[0], CodeBadRequest, "Invalid request body", http.StatusBadRequest)

		return
	}

	parsedRequest := &handlePostRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		h.sendError(w, err, CodeBadRequest, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	items, err := h.engine.InspectAll(req.Context(), parsedRequest.IPs)

	switch {
	case errors.Is(err, ErrEmptyBatch):
		h.sendError(w, err, CodeEmptyIPList, "IP list is empty", http.StatusBadRequest)

		return
	case errors.Is(err, ErrBatchTooLarge):
		h.sendError(w, err, CodeBatchSizeExceeded, "Too many IP addresses", http.StatusBadRequest)

		return
	case err != nil:
		h.sendInspectError(w, err)

		return
	}

	response := handlePostResponse{
		Count:   len(items),
		Results: make([]handlePostResult, 0, len(items)),
	}

	for _, v := range items {
		result := handlePostResult{
			IP:     v.Address,
			Result: v.Report,
		}

		if v.Err != nil {
			e := inspectError(v.Err)
			result.Error = &handlePostError{
				Code:    e.Code(),
				Message: e.Message(),
			}
		}

		response.Results = append(response.Results, result)
	}

	h.encodeJSON(w, http.StatusOK, response)
}
