package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"horizon/internal/shared/apperrors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// maxBodyBytes caps request bodies; every payload here is a small form.
const maxBodyBytes = 1 << 20

var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{apperrors.ErrNoAccountsLinked, http.StatusUnprocessableEntity, "no_accounts_linked"},
	{apperrors.ErrFundingSourceCreationFailed, http.StatusBadGateway, "funding_source_creation_failed"},
	{apperrors.ErrSyncIncomplete, http.StatusBadGateway, "sync_incomplete"},
	{apperrors.ErrRemoteFetchFailed, http.StatusBadGateway, "remote_fetch_failed"},
	{apperrors.ErrPersistenceFailed, http.StatusInternalServerError, "persistence_failed"},
}

// statusFor maps an error kind to its HTTP status and error code.
func statusFor(err error) (int, string) {
	kind := apperrors.Kind(err)
	for _, e := range errorStatus {
		if kind == e.kind {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err. Server-side failures are logged and their
// details kept out of the response.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := statusFor(err)

	message := err.Error()
	if status >= 500 {
		logger.Error("request failed", zap.String("code", code), zap.Error(err))
		message = http.StatusText(status)
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "decode", errors.New("request body is empty"))
		}
		return apperrors.Wrap(apperrors.ErrInvalidInput, "decode", errors.New("invalid request body"))
	}
	return nil
}

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
