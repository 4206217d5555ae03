package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-storefront/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a service error kind to an HTTP status and surfaces the
// message as a structured response.
func writeError(w http.ResponseWriter, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch se.Kind {
	case services.KindValidation, services.KindConflict, services.KindAlreadyInState,
		services.KindUnavailable, services.KindInsufficientStock:
		status = http.StatusBadRequest
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindNotFound, services.KindEmptyCart:
		status = http.StatusNotFound
	}
	writeMessage(w, status, se.Message)
}
