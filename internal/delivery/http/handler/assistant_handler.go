package handler

import (
	"net/http"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log                *logrus.Logger
	assistantUsecase   usecase.AssistantUsecase
	liveSessionUsecase usecase.LiveSessionUsecase
}

func NewAssistantHandler(
	log *logrus.Logger,
	assistantUsecase usecase.AssistantUsecase,
	liveSessionUsecase usecase.LiveSessionUsecase,
) *AssistantHandler {
	return &AssistantHandler{
		log:                log,
		assistantUsecase:   assistantUsecase,
		liveSessionUsecase: liveSessionUsecase,
	}
}

func (h *AssistantHandler) CreateAssistant(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assistant, err := h.assistantUsecase.CreateAssistant(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create assistant")
		return
	}
	response.Success(w, http.StatusCreated, "Assistant created successfully", assistant)
}

func (h *AssistantHandler) ListAssistants(w http.ResponseWriter, r *http.Request) {
	assistants, err := h.assistantUsecase.ListAssistants(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get assistants")
		return
	}
	response.Success(w, http.StatusOK, "Assistants retrieved successfully", response.NewList(assistants))
}

// CheckExisting answers whether an assistant already uses the email or
// phone given in the query string.
func (h *AssistantHandler) CheckExisting(w http.ResponseWriter, r *http.Request) {
	q := dto.CheckExistingQuery{
		Email: r.URL.Query().Get("email"),
		Phone: r.URL.Query().Get("phone"),
	}

	assistant, err := h.assistantUsecase.CheckExisting(r.Context(), q.Email, q.Phone)
	if err != nil {
		writeError(w, h.log, err, "Failed to check assistant")
		return
	}
	response.Success(w, http.StatusOK, "Check completed", dto.CheckExistingResponse{
		Exists:    assistant != nil,
		Assistant: assistant,
	})
}

func (h *AssistantHandler) GetAssistant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	assistant, err := h.assistantUsecase.GetAssistant(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get assistant")
		return
	}
	response.Success(w, http.StatusOK, "Assistant retrieved successfully", assistant)
}

func (h *AssistantHandler) UpdateAssistant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateAssistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assistant, err := h.assistantUsecase.UpdateAssistant(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update assistant")
		return
	}
	response.Success(w, http.StatusOK, "Assistant updated successfully", assistant)
}

func (h *AssistantHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	bundle, err := h.assistantUsecase.GetAssistantBundle(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get assistant data")
		return
	}
	response.Success(w, http.StatusOK, "Assistant data retrieved successfully", bundle)
}

func (h *AssistantHandler) GoLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dto.GoLiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	live, err := h.liveSessionUsecase.GoLive(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to go live")
		return
	}
	response.Success(w, http.StatusCreated, "Live session started", live)
}

func (h *AssistantHandler) EndLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	// The body is optional.
	var req dto.EndLiveRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	live, err := h.liveSessionUsecase.EndLive(r.Context(), id, req.Notes)
	if err != nil {
		writeError(w, h.log, err, "Failed to end live session")
		return
	}
	response.Success(w, http.StatusOK, "Live session ended", live)
}

func (h *AssistantHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	live, err := h.liveSessionUsecase.GetActive(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get live session")
		return
	}
	response.Success(w, http.StatusOK, "Live session retrieved successfully", live)
}
