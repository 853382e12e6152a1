package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"health-concierge/internal/domain/entity"
	"health-concierge/internal/service"
	"health-concierge/internal/session"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"
	"health-concierge/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func pathKind(w http.ResponseWriter, r *http.Request) (entity.RequestKind, bool) {
	kind, err := entity.ParseRequestKind(mux.Vars(r)["kind"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Unknown request kind", nil)
		return "", false
	}
	return kind, true
}

// writeError maps use case errors onto the response envelope. Anything
// unrecognised is logged and reported as fallback.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error, fallback string) {
	var fieldErrs validator.Errors
	if errors.As(err, &fieldErrs) {
		response.ValidationError(w, fieldErrs.Map())
		return
	}

	switch {
	case errors.Is(err, usecase.ErrAssistantNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrHospitalNotFound),
		errors.Is(err, usecase.ErrRequestNotFound):
		response.NotFound(w, capitalize(err))
	case errors.Is(err, usecase.ErrAssistantAlreadyExists),
		errors.Is(err, usecase.ErrLiveSessionAlreadyActive),
		errors.Is(err, usecase.ErrNoActiveLiveSession),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, session.ErrNoProfile):
		response.Conflict(w, capitalize(err))
	case errors.Is(err, usecase.ErrUnknownStatus),
		errors.Is(err, entity.ErrUnknownKind),
		errors.Is(err, service.ErrInvoiceAmountRequired),
		errors.Is(err, session.ErrInvalidRole):
		response.Error(w, http.StatusBadRequest, capitalize(err), nil)
	case errors.Is(err, usecase.ErrActorNotAllowed):
		response.Forbidden(w, capitalize(err))
	case errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, capitalize(err))
	default:
		log.Errorf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}

func capitalize(err error) string {
	msg := err.Error()
	if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
		return msg
	}
	return string(msg[0]-'a'+'A') + msg[1:]
}
