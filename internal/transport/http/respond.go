package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"landregistry/internal/domain"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

var notFoundErrs = []error{
	domain.ErrUserNotFound,
	domain.ErrLandNotFound,
	domain.ErrDocumentNotFound,
}

var forbiddenErrs = []error{
	domain.ErrAccessDenied,
	domain.ErrGovernmentOnly,
	domain.ErrNotOwner,
}

var unauthorizedErrs = []error{
	domain.ErrInvalidCredentials,
	domain.ErrAccountDeactivated,
}

var badRequestErrs = []error{
	domain.ErrDuplicateEmail,
	domain.ErrDuplicateWallet,
	domain.ErrGovernmentExists,
	domain.ErrDuplicateLandAddress,
	domain.ErrAlreadyReviewed,
	domain.ErrOwnLandRequest,
	domain.ErrLandNotAvailable,
	domain.ErrRequestOutstanding,
	domain.ErrNoPendingRequest,
	domain.ErrMissingFields,
	domain.ErrInvalidEmail,
	domain.ErrInvalidWallet,
	domain.ErrPasswordLength,
	domain.ErrMissingCredentials,
	domain.ErrMissingLandFields,
	domain.ErrInvalidPrice,
	domain.ErrEmptyDescription,
	domain.ErrInvalidStatus,
	domain.ErrMissingNotification,
	domain.ErrUploadTooLarge,
	domain.ErrTooManyUploads,
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case matchesAny(err, notFoundErrs):
		fail(w, http.StatusNotFound, err.Error())
	case matchesAny(err, forbiddenErrs):
		fail(w, http.StatusForbidden, err.Error())
	case matchesAny(err, unauthorizedErrs):
		fail(w, http.StatusUnauthorized, err.Error())
	case matchesAny(err, badRequestErrs):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		fail(w, http.StatusInternalServerError, "internal server error")
	}
}
