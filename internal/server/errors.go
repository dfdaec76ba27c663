package server

import (
	"encoding/json"
	"errors"
	"net/http"

	archerrors "github.com/matzehuels/archgraph/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      archerrors.Code `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"requestId,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if archerrors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch archerrors.GetCode(err) {
	case archerrors.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case archerrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case archerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case archerrors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	case archerrors.ErrCodeClassifier, archerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := archerrors.GetCode(err)
	msg := archerrors.UserMessage(firstCoded(err))
	if code == "" || status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestID(r.Context()))
		code = archerrors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	}})
}

// firstCoded returns the outermost *archerrors.Error in err's chain, so
// wrappers like "request 2: ..." do not leak the code prefix into messages.
func firstCoded(err error) error {
	var e *archerrors.Error
	if errors.As(err, &e) {
		return e
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(path string) error {
	return archerrors.New(archerrors.ErrCodeNotFound, "no route for %s", path)
}

func errMethodNotAllowed(method string) error {
	return archerrors.New(archerrors.ErrCodeUnsupported, "method %s not allowed", method)
}
