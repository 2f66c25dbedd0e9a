package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"avance/internal/models"
)

type envelope map[string]any

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.logger.Error("response_encode_failed", zap.Error(err))
	}
}

func (app *application) idParam(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func (app *application) errorMessage(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"message": message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Error("server_error",
		zap.String("request_id", r.Header.Get(headerRequestID)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	app.errorMessage(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (app *application) notFound(w http.ResponseWriter) {
	app.errorMessage(w, http.StatusNotFound, "the requested resource could not be found")
}

func (app *application) badRequest(w http.ResponseWriter, err error) {
	app.errorMessage(w, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidation(w http.ResponseWriter, ve *models.ValidationError) {
	app.writeJSON(w, http.StatusBadRequest, envelope{
		"message": "invalid input",
		"errors":  ve.Fields,
	})
}

// storeError maps store failures onto the API error taxonomy. Anything not
// recognised is a store fault and reported as a generic server error.
func (app *application) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError

	switch {
	case errors.As(err, &ve):
		app.failedValidation(w, ve)
	case errors.Is(err, models.ErrNoRecord):
		app.notFound(w)
	case errors.Is(err, models.ErrDuplicateEmail):
		app.errorMessage(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, models.ErrInvalidCredentials):
		app.errorMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrInsufficientStock):
		app.metrics.stockRejections.Inc()
		app.errorMessage(w, http.StatusConflict, "Insufficient stock for one or more items")
	case errors.Is(err, models.ErrInvalidTransition):
		app.errorMessage(w, http.StatusConflict, "Order status transition not allowed")
	default:
		app.serverError(w, r, err)
	}
}
