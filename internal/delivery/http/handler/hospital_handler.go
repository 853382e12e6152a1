package handler

import (
	"net/http"

	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

type HospitalHandler struct {
	log             *logrus.Logger
	hospitalUsecase usecase.HospitalUsecase
}

func NewHospitalHandler(log *logrus.Logger, hospitalUsecase usecase.HospitalUsecase) *HospitalHandler {
	return &HospitalHandler{
		log:             log,
		hospitalUsecase: hospitalUsecase,
	}
}

func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.hospitalUsecase.ListHospitals(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get hospitals")
		return
	}
	response.Success(w, http.StatusOK, "Hospitals retrieved successfully", response.NewList(hospitals))
}

func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	hospital, err := h.hospitalUsecase.GetHospital(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get hospital")
		return
	}
	response.Success(w, http.StatusOK, "Hospital retrieved successfully", hospital)
}

// ListAssistants returns the assistants with an open live window at the
// hospital.
func (h *HospitalHandler) ListAssistants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	assistants, err := h.hospitalUsecase.ListAssistantsAtHospital(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get assistants")
		return
	}
	response.Success(w, http.StatusOK, "Assistants retrieved successfully", response.NewList(assistants))
}
