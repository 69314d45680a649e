// Package api holds the JSON envelope shared by every /api handler.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/mytheresa/storefront/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every JSON API response.
type Envelope struct {
	Status  string      `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// ErrMalformedBody marks request bodies that could not be decoded.
var ErrMalformedBody = errors.New("invalid JSON body")

func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteSuccess(w http.ResponseWriter, code int, payload interface{}) {
	WriteJSON(w, code, Envelope{Status: StatusSuccess, Payload: payload})
}

// WriteError maps err to a status code and writes the error envelope.
// Unexpected errors are logged and answered with a generic message.
func WriteError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	code, env := Classify(err)
	if code == http.StatusInternalServerError && log != nil {
		log.WithError(err).Error("request failed")
	}
	WriteJSON(w, code, env)
}

// Classify returns the status code and envelope for err.
func Classify(err error) (int, Envelope) {
	env := Envelope{Status: StatusError, Message: err.Error()}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		env.Message = models.ErrValidation.Error()
		env.Errors = verr.Problems
		return http.StatusBadRequest, env
	case errors.Is(err, models.ErrDuplicateKey):
		env.Message = "a product with this code already exists"
		return http.StatusBadRequest, env
	case errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, env
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrProductNotInCart):
		return http.StatusNotFound, env
	}

	env.Message = "internal server error"
	return http.StatusInternalServerError, env
}

// DecodeJSON decodes the request body into v, reporting failures as ErrMalformedBody.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(ErrMalformedBody, err.Error())
	}
	return nil
}
