package handler

import (
	"net/http"

	"health-concierge/internal/delivery/dto"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/response"

	"github.com/sirupsen/logrus"
)

type PatientHandler struct {
	log            *logrus.Logger
	patientUsecase usecase.PatientUsecase
}

func NewPatientHandler(log *logrus.Logger, patientUsecase usecase.PatientUsecase) *PatientHandler {
	return &PatientHandler{
		log:            log,
		patientUsecase: patientUsecase,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create patient")
		return
	}
	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Failed to get patient")
		return
	}
	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdatePatientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to update patient")
		return
	}
	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}
