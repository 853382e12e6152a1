package handler

import (
	"net/http"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/session"
	"health-concierge/pkg/response"
	"health-concierge/pkg/validator"

	"github.com/sirupsen/logrus"
)

// SessionHandler serves the device session routes. Every route runs behind
// the device middleware, which puts the X-Device-ID value in the context.
type SessionHandler struct {
	log       *logrus.Logger
	validator *validator.CustomValidator
	sessions  *session.Manager
}

func NewSessionHandler(log *logrus.Logger, validator *validator.CustomValidator, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{
		log:       log,
		validator: validator,
		sessions:  sessions,
	}
}

func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	deviceID, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusBadRequest, "X-Device-ID header is required", nil)
		return nil, false
	}
	st, err := h.sessions.Get(r.Context(), deviceID)
	if err != nil {
		writeError(w, h.log, err, "Failed to load session")
		return nil, false
	}
	return st, true
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	response.Success(w, http.StatusOK, "Session retrieved successfully", st.Snapshot())
}

func (h *SessionHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateRequest(&req); err != nil {
		writeError(w, h.log, err, "Failed to select role")
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	if err := st.SelectRole(r.Context(), req.Role); err != nil {
		writeError(w, h.log, err, "Failed to select role")
		return
	}
	response.Success(w, http.StatusOK, "Role selected", st.Snapshot())
}

func (h *SessionHandler) SaveAssistantProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	assistant, err := st.SaveAssistantProfile(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to save assistant profile")
		return
	}
	response.Success(w, http.StatusOK, "Assistant profile saved", assistant)
}

func (h *SessionHandler) SavePatientProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	patient, err := st.SavePatientProfile(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to save patient profile")
		return
	}
	response.Success(w, http.StatusOK, "Patient profile saved", patient)
}

// SubmitRequest files a request of the path's kind for the device's patient.
func (h *SessionHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	var (
		created interface{}
		err     error
	)
	switch kind {
	case entity.KindHospitalSession:
		var req dto.HospitalSessionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		st, ok := h.state(w, r)
		if !ok {
			return
		}
		created, err = st.SubmitHospitalSession(r.Context(), &req)
	case entity.KindHomeCare:
		var req dto.HomeCareRequestForm
		if !decodeJSON(w, r, &req) {
			return
		}
		st, ok := h.state(w, r)
		if !ok {
			return
		}
		created, err = st.SubmitHomeCareRequest(r.Context(), &req)
	case entity.KindHealthSupplies:
		var req dto.HealthSuppliesRequestForm
		if !decodeJSON(w, r, &req) {
			return
		}
		st, ok := h.state(w, r)
		if !ok {
			return
		}
		created, err = st.SubmitHealthSuppliesRequest(r.Context(), &req)
	}
	if err != nil {
		writeError(w, h.log, err, "Failed to submit request")
		return
	}
	response.Success(w, http.StatusCreated, "Request submitted", created)
}

func (h *SessionHandler) RefreshRequests(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	if err := st.RefreshRequests(r.Context()); err != nil {
		writeError(w, h.log, err, "Failed to refresh requests")
		return
	}
	response.Success(w, http.StatusOK, "Requests refreshed", st.Snapshot())
}

func (h *SessionHandler) TransitionRequest(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateRequest(&req); err != nil {
		writeError(w, h.log, err, "Failed to update request status")
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}

	updated, err := st.TransitionRequest(r.Context(), kind, id, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update request status")
		return
	}
	response.Success(w, http.StatusOK, "Request status updated", updated)
}

func (h *SessionHandler) StartAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.GoLiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	live, err := st.StartAvailability(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to go live")
		return
	}
	response.Success(w, http.StatusCreated, "Live session started", live)
}

func (h *SessionHandler) EndAvailability(w http.ResponseWriter, r *http.Request) {
	var req dto.EndLiveRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	ended, err := st.EndAvailability(r.Context(), req.Notes)
	if err != nil {
		writeError(w, h.log, err, "Failed to end live session")
		return
	}
	response.Success(w, http.StatusOK, "Live session ended", ended)
}

func (h *SessionHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	token, err := st.IssueToken(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to issue token")
		return
	}
	response.Success(w, http.StatusOK, "Token issued", token)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	if err := st.Reset(r.Context()); err != nil {
		writeError(w, h.log, err, "Failed to reset session")
		return
	}
	deviceID, _ := middleware.DeviceIDFromContext(r.Context())
	h.sessions.Forget(deviceID)
	response.Success(w, http.StatusOK, "Session reset", nil)
}
