package service

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitledger/internal/ledger"
)

// WarningHeader carries a persistence warning on an otherwise successful
// mutation response.
const WarningHeader = "X-Ledger-Warning"

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

// writeLedgerError maps ledger errors onto status codes.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("Unexpected ledger error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// mutationFailed writes the error response for a rejected mutation. A
// persistence warning alone is not a failure.
func mutationFailed(w http.ResponseWriter, err error) bool {
	if err == nil || ledger.IsWarning(err) {
		return false
	}
	writeLedgerError(w, err)
	return true
}

// writeMutation writes a successful mutation result. warn is the error the
// mutation returned; a failed snapshot save is flagged in the warning header.
func writeMutation(w http.ResponseWriter, statusCode int, payload any, warn error) {
	if ledger.IsWarning(warn) {
		w.Header().Set(WarningHeader, warn.Error())
	}
	if payload == nil {
		w.WriteHeader(statusCode)
		return
	}
	writeJSON(w, statusCode, payload)
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// decodeOptionalBody is decodeBody for routes where every field has a
// default: an empty body leaves dst untouched.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := decodeBody(r, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
