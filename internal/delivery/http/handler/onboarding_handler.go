package handler

import (
	"net/http"

	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/internal/domain/entity"
	"health-concierge/internal/session"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

type OnboardingHandler struct {
	log               *logrus.Logger
	onboardingUsecase usecase.OnboardingUsecase
	sessions          *session.Manager
}

func NewOnboardingHandler(log *logrus.Logger, onboardingUsecase usecase.OnboardingUsecase, sessions *session.Manager) *OnboardingHandler {
	return &OnboardingHandler{
		log:               log,
		onboardingUsecase: onboardingUsecase,
		sessions:          sessions,
	}
}

func deviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusBadRequest, "X-Device-ID header is required", nil)
	}
	return id, ok
}

func (h *OnboardingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	draft, err := h.onboardingUsecase.GetDraft(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get onboarding draft")
		return
	}
	response.Success(w, http.StatusOK, "Draft retrieved successfully", draft)
}

func (h *OnboardingHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	var updates entity.OnboardingDraft
	if !decodeJSON(w, r, &updates) {
		return
	}
	draft, err := h.onboardingUsecase.UpdateDraft(r.Context(), id, updates)
	if err != nil {
		writeError(w, h.log, err, "Failed to update onboarding draft")
		return
	}
	response.Success(w, http.StatusOK, "Draft updated", draft)
}

func (h *OnboardingHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	if err := h.onboardingUsecase.ClearDraft(r.Context(), id); err != nil {
		writeError(w, h.log, err, "Failed to clear onboarding draft")
		return
	}
	response.Success(w, http.StatusOK, "Draft cleared", nil)
}

// Submit creates the assistant and drops the cached session so the next
// session call rehydrates as that assistant.
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := deviceID(w, r)
	if !ok {
		return
	}
	assistant, err := h.onboardingUsecase.SubmitDraft(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to submit onboarding")
		return
	}
	h.sessions.Forget(id)
	response.Success(w, http.StatusCreated, "Assistant created successfully", assistant)
}
