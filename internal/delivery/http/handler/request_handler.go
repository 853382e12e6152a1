package handler

import (
	"net/http"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"
	"health-concierge/pkg/validator"

	"github.com/sirupsen/logrus"
)

type RequestHandler struct {
	log              *logrus.Logger
	validator        *validator.CustomValidator
	requestUsecase   usecase.RequestUsecase
	lifecycleUsecase usecase.RequestLifecycleUsecase
}

func NewRequestHandler(
	log *logrus.Logger,
	validator *validator.CustomValidator,
	requestUsecase usecase.RequestUsecase,
	lifecycleUsecase usecase.RequestLifecycleUsecase,
) *RequestHandler {
	return &RequestHandler{
		log:              log,
		validator:        validator,
		requestUsecase:   requestUsecase,
		lifecycleUsecase: lifecycleUsecase,
	}
}

func (h *RequestHandler) SubmitHospitalSession(w http.ResponseWriter, r *http.Request) {
	var req dto.HospitalSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.requestUsecase.SubmitHospitalSession(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to submit hospital session")
		return
	}
	response.Success(w, http.StatusCreated, "Hospital session requested", created)
}

func (h *RequestHandler) SubmitHomeCare(w http.ResponseWriter, r *http.Request) {
	var req dto.HomeCareRequestForm
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.requestUsecase.SubmitHomeCareRequest(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to submit home care request")
		return
	}
	response.Success(w, http.StatusCreated, "Home care requested", created)
}

func (h *RequestHandler) SubmitHealthSupplies(w http.ResponseWriter, r *http.Request) {
	var req dto.HealthSuppliesRequestForm
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.requestUsecase.SubmitHealthSuppliesRequest(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to submit health supplies request")
		return
	}
	response.Success(w, http.StatusCreated, "Health supplies requested", created)
}

func (h *RequestHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	items, err := h.requestUsecase.GetAllOpen(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get open requests")
		return
	}
	response.Success(w, http.StatusOK, "Open requests retrieved successfully", response.NewList(items))
}

func (h *RequestHandler) ListOpenRaw(w http.ResponseWriter, r *http.Request) {
	raw, err := h.requestUsecase.GetAllOpenRaw(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get open requests")
		return
	}
	response.Success(w, http.StatusOK, "Open requests retrieved successfully", raw)
}

func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req, err := h.requestUsecase.GetRequest(r.Context(), kind, id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get request")
		return
	}
	response.Success(w, http.StatusOK, "Request retrieved successfully", req)
}

// Transition moves a request on behalf of the token holder.
func (h *RequestHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Actor information not found")
		return
	}
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

	updated, err := h.lifecycleUsecase.Transition(r.Context(), usecase.TransitionInput{
		Kind:          kind,
		ID:            id,
		Status:        req.Status,
		Actor:         actor,
		InvoiceAmount: req.InvoiceAmount,
		InvoiceReview: req.InvoiceReview,
	})
	if err != nil {
		writeError(w, h.log, err, "Failed to update request status")
		return
	}
	response.Success(w, http.StatusOK, "Request status updated", updated)
}
